// Package secret implements the handling of sensitive material. Passphrases
// are kept in locked memory where possible and are wiped once they are no
// longer needed. The package also implements storing passphrases in the
// freedesktop.org Secret Service.
package secret

import (
	"log/slog"
	"sync"
)

const redacted = "[REDACTED]"

type memLocker interface {
	Mlock(b []byte) error
	Munlock(b []byte) error
}

//nolint:gochecknoglobals
var defaultLocker memLocker = &Unix{}

// Passphrase is a wipeable buffer holding a passphrase. It never reveals its
// content through formatting or logging.
type Passphrase struct {
	sync.Mutex
	buf    []byte
	locker memLocker
	locked bool
	wiped  bool
}

// NewPassphrase returns a pointer to a new [Passphrase]. It takes ownership
// of b, which must not be used by the caller afterwards.
func NewPassphrase(b []byte) *Passphrase {
	return newPassphrase(b, defaultLocker)
}

func newPassphrase(b []byte, locker memLocker) *Passphrase {
	p := &Passphrase{
		buf:    b,
		locker: locker,
	}

	if len(b) > 0 && locker != nil {
		if err := locker.Mlock(b); err != nil {
			slog.Debug("Failed to lock passphrase memory, continuing unlocked.",
				"err", err,
			)
		} else {
			p.locked = true
		}
	}

	return p
}

// Empty reports if the [Passphrase] holds no material, either because it was
// empty from the start or because it was wiped.
func (p *Passphrase) Empty() bool {
	if p == nil {
		return true
	}

	p.Lock()
	defer p.Unlock()

	return p.wiped || len(p.buf) == 0
}

// Wiped reports if [Passphrase.Wipe] was called.
func (p *Passphrase) Wiped() bool {
	p.Lock()
	defer p.Unlock()

	return p.wiped
}

// Use calls fn with the passphrase material. The slice passed to fn is only
// valid for the duration of the call and must not be retained.
func (p *Passphrase) Use(fn func(b []byte)) {
	p.Lock()
	defer p.Unlock()

	if p.wiped {
		fn(nil)

		return
	}

	fn(p.buf)
}

// Wipe zeroes the passphrase material and unlocks its memory. It is safe to
// call Wipe more than once and on a nil [Passphrase].
func (p *Passphrase) Wipe() {
	if p == nil {
		return
	}

	p.Lock()
	defer p.Unlock()

	if p.wiped {
		return
	}

	clear(p.buf)

	if p.locked {
		if err := p.locker.Munlock(p.buf); err != nil {
			slog.Debug("Failed to unlock passphrase memory.",
				"err", err,
			)
		}
		p.locked = false
	}

	p.buf = nil
	p.wiped = true
}

// Release implements the release contract of dispatched operation contexts.
func (p *Passphrase) Release() {
	p.Wipe()
}

// String never returns the passphrase material.
func (p *Passphrase) String() string {
	return redacted
}

// GoString never returns the passphrase material.
func (p *Passphrase) GoString() string {
	return redacted
}

// LogValue implements [slog.LogValuer] and never returns the passphrase
// material.
func (p *Passphrase) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
