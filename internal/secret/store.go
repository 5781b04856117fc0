package secret

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// ServiceBusName is the well-known bus name of the Secret Service.
	ServiceBusName = "org.freedesktop.secrets"

	// ServicePath is the object path of the Secret Service.
	ServicePath = dbus.ObjectPath("/org/freedesktop/secrets")

	// DefaultCollection is the alias of the persistent default keyring.
	DefaultCollection = dbus.ObjectPath("/org/freedesktop/secrets/aliases/default")

	// SessionCollection is the keyring that lasts until the user logs out.
	SessionCollection = dbus.ObjectPath("/org/freedesktop/secrets/collection/session")

	// AttributeLuksUUID is the item attribute identifying the encrypted
	// device the passphrase belongs to.
	AttributeLuksUUID = "luks-device-uuid"

	serviceInterface    = "org.freedesktop.Secret.Service"
	collectionInterface = "org.freedesktop.Secret.Collection"
	sessionInterface    = "org.freedesktop.Secret.Session"
	promptInterface     = "org.freedesktop.Secret.Prompt"

	itemLabelProperty      = "org.freedesktop.Secret.Item.Label"
	itemAttributesProperty = "org.freedesktop.Secret.Item.Attributes"

	noPrompt = dbus.ObjectPath("/")
)

// Owner identifies the encrypted device a passphrase belongs to.
type Owner struct {
	Ref        string
	UUID       string
	DeviceFile string
}

// Store describes a place where passphrases can be saved.
type Store interface {
	Save(ctx context.Context, owner Owner, pass *Passphrase, sessionScoped bool) error
}

type busProvider interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

type signalProvider interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// dbusSecret is the (oayays) secret structure of the Secret Service API.
type dbusSecret struct {
	Session     dbus.ObjectPath
	Parameters  []byte
	Value       []byte
	ContentType string
}

// ServiceStore is a [Store] backed by the freedesktop.org Secret Service.
type ServiceStore struct {
	bus        busProvider
	signals    signalProvider
	collection dbus.ObjectPath
}

// NewServiceStore returns a pointer to a new [ServiceStore] on the given
// session bus connection. The collection is used for passphrases that are not
// session-scoped, an empty collection means [DefaultCollection].
func NewServiceStore(conn *dbus.Conn, collection string) *ServiceStore {
	return newServiceStore(conn, conn, collection)
}

func newServiceStore(bus busProvider, signals signalProvider, collection string) *ServiceStore {
	path := DefaultCollection
	if collection != "" {
		path = dbus.ObjectPath(collection)
	}

	return &ServiceStore{
		bus:        bus,
		signals:    signals,
		collection: path,
	}
}

// Save stores the passphrase for the owner. The passphrase material is copied
// into the request only for the duration of the call, the [Passphrase] itself
// remains owned (and is to be wiped) by the caller.
func (s *ServiceStore) Save(ctx context.Context, owner Owner, pass *Passphrase, sessionScoped bool) error {
	if owner.UUID == "" {
		return fmt.Errorf("(secret-save) %w", ErrNoOwner)
	}

	if pass.Empty() {
		return fmt.Errorf("(secret-save) %w", ErrEmptyPassphrase)
	}

	service := s.bus.Object(ServiceBusName, ServicePath)

	var output dbus.Variant
	var session dbus.ObjectPath

	if err := service.CallWithContext(ctx, serviceInterface+".OpenSession", 0, "plain", dbus.MakeVariant("")).Store(&output, &session); err != nil {
		return fmt.Errorf("(secret-save) failed to open session: %w", err)
	}
	defer s.closeSession(session)

	collection := s.collection
	if sessionScoped {
		collection = SessionCollection
	}

	props := map[string]dbus.Variant{
		itemLabelProperty: dbus.MakeVariant(fmt.Sprintf("Encryption passphrase for %s", owner.UUID)),
		itemAttributesProperty: dbus.MakeVariant(map[string]string{
			AttributeLuksUUID: owner.UUID,
		}),
	}

	var value []byte
	pass.Use(func(b []byte) {
		value = make([]byte, len(b))
		copy(value, b)
	})
	defer clear(value)

	sec := dbusSecret{
		Session:     session,
		Parameters:  []byte{},
		Value:       value,
		ContentType: "text/plain",
	}

	var item, prompt dbus.ObjectPath

	if err := s.bus.Object(ServiceBusName, collection).CallWithContext(ctx, collectionInterface+".CreateItem", 0, props, sec, true).Store(&item, &prompt); err != nil {
		return fmt.Errorf("(secret-save) failed to create item: %w", err)
	}

	if prompt != noPrompt && prompt != "" {
		if err := s.awaitPrompt(ctx, prompt); err != nil {
			return fmt.Errorf("(secret-save) %w", err)
		}
	}

	return nil
}

func (s *ServiceStore) closeSession(session dbus.ObjectPath) {
	if session == "" || session == noPrompt {
		return
	}

	_ = s.bus.Object(ServiceBusName, session).Call(sessionInterface+".Close", 0).Err
}

// awaitPrompt shows a Secret Service prompt (e.g. for unlocking a keyring) and
// waits for it to be completed or dismissed.
func (s *ServiceStore) awaitPrompt(ctx context.Context, prompt dbus.ObjectPath) error {
	if s.signals == nil {
		return ErrPromptUnsupported
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(prompt),
		dbus.WithMatchInterface(promptInterface),
		dbus.WithMatchMember("Completed"),
	}

	if err := s.signals.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("failed to match prompt signal: %w", err)
	}
	defer func() { _ = s.signals.RemoveMatchSignal(match...) }()

	ch := make(chan *dbus.Signal, 4) //nolint:mnd
	s.signals.Signal(ch)
	defer s.signals.RemoveSignal(ch)

	if err := s.bus.Object(ServiceBusName, prompt).CallWithContext(ctx, promptInterface+".Prompt", 0, "").Err; err != nil {
		return fmt.Errorf("failed to show prompt: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sig := <-ch:
			if sig == nil || sig.Path != prompt || sig.Name != promptInterface+".Completed" {
				continue
			}

			if len(sig.Body) > 0 {
				if dismissed, ok := sig.Body[0].(bool); ok && dismissed {
					return ErrPromptDismissed
				}
			}

			return nil
		}
	}
}
