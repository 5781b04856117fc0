package ui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/secret"
)

// maxSecret is the capacity of a passphrase input buffer. The buffers never
// grow, so no unwiped copies are left behind by reallocation.
const maxSecret = 512

// modal is a dialog that captures all keys until it is finished.
type modal interface {
	// update handles a key and reports if the modal is finished.
	update(msg tea.KeyMsg) (bool, tea.Cmd)
	view() string
}

// modalMsg is a [tea.Msg] that opens a modal on top of all others.
type modalMsg struct {
	modal modal
}

// Modals is the terminal implementation of [gate.Modals]. The methods must
// be called on the loop, which keeps being pumped while the user answers.
// Once closed, confirmations are declined and errors are only logged.
type Modals struct {
	program teaProgramProvider
	pump    gate.Pump

	closeOnce sync.Once
	closed    chan struct{}
}

// NewModals returns a pointer to new [Modals].
func NewModals(program teaProgramProvider, pump gate.Pump) *Modals {
	return &Modals{
		program: program,
		pump:    pump,
		closed:  make(chan struct{}),
	}
}

// Close abandons all open modals, for when the user interface has exited.
func (m *Modals) Close() {
	m.closeOnce.Do(func() {
		close(m.closed)
	})
}

func (m *Modals) open(ctx context.Context, md modal, done <-chan struct{}) bool {
	select {
	case <-m.closed:
		return false
	default:
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-m.closed:
			cancel()
		case <-ctx.Done():
		}
	}()

	m.program.Send(modalMsg{modal: md})

	if err := m.pump.Wait(ctx, done); err != nil {
		slog.Debug("Modal was abandoned.", "err", err)

		return false
	}

	return true
}

// Confirm implements [gate.Confirmer].
func (m *Modals) Confirm(ctx context.Context, c gate.Confirmation) bool {
	var ok bool

	done := make(chan struct{})
	md := &confirmModal{c: c, answer: func(v bool) {
		ok = v
		close(done)
	}}

	return m.open(ctx, md, done) && ok
}

// ShowError implements [gate.ErrorPresenter].
func (m *Modals) ShowError(ctx context.Context, targetName string, title string, err error) {
	done := make(chan struct{})
	md := &errorModal{
		target:  targetName,
		title:   title,
		message: gate.ErrorMessage(err),
		dismiss: func() { close(done) },
	}

	if !m.open(ctx, md, done) {
		slog.Error("Operation failed.", "title", title, "target", targetName, "err", err)
	}
}

// AskNewSecret implements [gate.SecretPrompter].
func (m *Modals) AskNewSecret(ctx context.Context) (*secret.Passphrase, gate.SaveMode, bool) {
	var (
		pass *secret.Passphrase
		save gate.SaveMode
		ok   bool
	)

	done := make(chan struct{})
	md := newSecretModal(func(p *secret.Passphrase, s gate.SaveMode, v bool) {
		pass, save, ok = p, s, v
		close(done)
	})

	if !m.open(ctx, md, done) {
		return nil, gate.SaveNever, false
	}

	return pass, save, ok
}

type confirmModal struct {
	c      gate.Confirmation
	answer func(bool)
}

func (md *confirmModal) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		md.answer(true)

		return true, nil
	case "n", "N", "esc":
		md.answer(false)

		return true, nil
	}

	return false, nil
}

func (md *confirmModal) view() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(md.c.TargetName) + "\n\n")
	s.WriteString(md.c.Message + "\n")
	if md.c.Detail != "" {
		s.WriteString(labelStyle.Render(md.c.Detail) + "\n")
	}
	fmt.Fprintf(&s, "\n[y] %s  [n] Cancel", md.c.Action())

	return s.String()
}

type errorModal struct {
	target  string
	title   string
	message string
	dismiss func()
}

func (md *errorModal) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		md.dismiss()

		return true, nil
	}

	return false, nil
}

func (md *errorModal) view() string {
	return warningStyle.Render(md.title) + "\n\n" +
		md.target + "\n" +
		md.message + "\n\n" +
		"[enter] Close"
}

// secretModal asks for a new passphrase twice. The typed material only ever
// lives in its fixed buffers, which are wiped on every exit.
type secretModal struct {
	bufs    [2][]byte
	focus   int
	save    gate.SaveMode
	problem string
	answer  func(*secret.Passphrase, gate.SaveMode, bool)
}

func newSecretModal(answer func(*secret.Passphrase, gate.SaveMode, bool)) *secretModal {
	return &secretModal{
		bufs:   [2][]byte{make([]byte, 0, maxSecret), make([]byte, 0, maxSecret)},
		answer: answer,
	}
}

func (md *secretModal) wipe() {
	for i := range md.bufs {
		clear(md.bufs[i][:cap(md.bufs[i])])
		md.bufs[i] = md.bufs[i][:0]
	}
}

//nolint:mnd
func (md *secretModal) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		md.wipe()
		md.answer(nil, gate.SaveNever, false)

		return true, nil

	case tea.KeyTab, tea.KeyDown:
		md.focus = (md.focus + 1) % 3

	case tea.KeyShiftTab, tea.KeyUp:
		md.focus = (md.focus + 2) % 3

	case tea.KeyLeft, tea.KeyRight:
		if md.focus == 2 {
			md.save = (md.save + 1) % 3
		}

	case tea.KeyBackspace:
		if md.focus < 2 {
			b := md.bufs[md.focus]
			_, size := utf8.DecodeLastRune(b)
			clear(b[len(b)-size:])
			md.bufs[md.focus] = b[:len(b)-size]
		}

	case tea.KeyRunes, tea.KeySpace:
		if md.focus < 2 {
			for _, r := range msg.Runes {
				b := md.bufs[md.focus]
				if len(b)+utf8.RuneLen(r) > cap(b) {
					break
				}
				md.bufs[md.focus] = utf8.AppendRune(b, r)
			}
		}

	case tea.KeyEnter:
		return md.submit(), nil

	default:
	}

	return false, nil
}

func (md *secretModal) submit() bool {
	switch {
	case len(md.bufs[0]) == 0:
		md.problem = "The passphrase must not be empty."
		md.focus = 0

		return false

	case !bytes.Equal(md.bufs[0], md.bufs[1]):
		md.problem = "The passphrases do not match."
		md.wipe()
		md.focus = 0

		return false
	}

	pass := secret.NewPassphrase(bytes.Clone(md.bufs[0]))
	md.wipe()
	md.answer(pass, md.save, true)

	return true
}

func (md *secretModal) view() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Encryption Passphrase") + "\n\n")

	rows := []string{
		"Passphrase:         " + strings.Repeat("*", utf8.RuneCount(md.bufs[0])),
		"Verify passphrase:  " + strings.Repeat("*", utf8.RuneCount(md.bufs[1])),
		"Remember:           < " + md.save.String() + " >",
	}
	for i, row := range rows {
		if i == md.focus {
			row = selectedStyle.Render(row)
		}
		s.WriteString(row + "\n")
	}

	if md.problem != "" {
		s.WriteString("\n" + warningStyle.Render(md.problem) + "\n")
	}
	s.WriteString("\n[tab] Next  [enter] Create  [esc] Cancel")

	return s.String()
}
