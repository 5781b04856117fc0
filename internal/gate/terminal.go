package gate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/desertwitch/diskman/internal/secret"
)

const maxSecretAttempts = 3

// TerminalOption configures a [Terminal].
type TerminalOption func(*Terminal)

// WithAssumeYes answers every confirmation with yes, without asking.
func WithAssumeYes(yes bool) TerminalOption {
	return func(t *Terminal) {
		t.assumeYes = yes
	}
}

// WithSaveMode sets the [SaveMode] used for new passphrases when
// confirmations are answered automatically.
func WithSaveMode(mode SaveMode) TerminalOption {
	return func(t *Terminal) {
		t.saveMode = mode
	}
}

// Terminal implements [Modals] on a line-based terminal, such as the
// standard input and output of the command-line interface.
type Terminal struct {
	sync.Mutex
	in   *bufio.Reader
	fd   int
	out  io.Writer
	pump Pump

	assumeYes bool
	saveMode  SaveMode
}

// NewTerminal returns a pointer to a new [Terminal]. Typed passphrases are
// not echoed if in is a terminal. The pump may be nil when the [Terminal] is
// not used from the loop.
func NewTerminal(in io.Reader, out io.Writer, pump Pump, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		in:   bufio.NewReader(in),
		fd:   -1,
		out:  out,
		pump: pump,
	}

	if f, ok := in.(fdProvider); ok && isTerminal(int(f.Fd())) { //nolint:gosec
		t.fd = int(f.Fd()) //nolint:gosec
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Confirm implements [Confirmer]. Anything but "y" or "yes" declines.
func (t *Terminal) Confirm(ctx context.Context, c Confirmation) bool {
	if t.assumeYes {
		slog.Info("Confirmed operation automatically.",
			"target", c.TargetName,
			"action", c.Action(),
		)

		return true
	}

	t.printf("%s\n", c.Message)
	if c.Detail != "" {
		t.printf("%s\n", c.Detail)
	}
	t.printf("%s %s? [y/N]: ", c.Action(), c.TargetName)

	line, err := t.readLine(ctx, false)
	defer clear(line)

	if err != nil {
		slog.Warn("Failed to read confirmation, declining.",
			"target", c.TargetName,
			"err", err,
		)

		return false
	}

	switch strings.ToLower(string(bytes.TrimSpace(line))) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ShowError implements [ErrorPresenter].
func (t *Terminal) ShowError(_ context.Context, targetName string, title string, err error) {
	t.printf("%s: %s\n", title, targetName)
	t.printf("  %s\n", ErrorMessage(err))
}

// AskNewSecret implements [SecretPrompter]. A closed input or an exhausted
// number of attempts counts as cancelled.
func (t *Terminal) AskNewSecret(ctx context.Context) (*secret.Passphrase, SaveMode, bool) {
	for range maxSecretAttempts {
		pass, err := t.askTwice(ctx)
		if err == nil {
			mode, ok := t.askSaveMode(ctx)
			if !ok {
				pass.Wipe()

				return nil, SaveNever, false
			}

			return pass, mode, true
		}

		if !errors.Is(err, errMismatch) && !errors.Is(err, errEmpty) {
			return nil, SaveNever, false
		}

		if errors.Is(err, errMismatch) {
			t.printf("The passphrases do not match.\n")
		} else {
			t.printf("The passphrase must not be empty.\n")
		}
	}

	return nil, SaveNever, false
}

func (t *Terminal) askTwice(ctx context.Context) (*secret.Passphrase, error) {
	t.printf("Passphrase: ")

	first, err := t.readLine(ctx, true)
	if err != nil {
		clear(first)

		return nil, err
	}

	if len(first) == 0 {
		return nil, errEmpty
	}

	t.printf("Verify passphrase: ")

	second, err := t.readLine(ctx, true)
	defer clear(second)

	if err != nil {
		clear(first)

		return nil, err
	}

	if !bytes.Equal(first, second) {
		clear(first)

		return nil, errMismatch
	}

	return secret.NewPassphrase(first), nil
}

func (t *Terminal) askSaveMode(ctx context.Context) (SaveMode, bool) {
	if t.assumeYes {
		return t.saveMode, true
	}

	t.printf("Remember passphrase? [n]ever, [s]ession, [f]orever [n]: ")

	line, err := t.readLine(ctx, false)
	defer clear(line)

	if err != nil {
		return SaveNever, false
	}

	switch strings.ToLower(string(bytes.TrimSpace(line))) {
	case "s", "session":
		return SaveSession, true
	case "f", "forever":
		return SaveForever, true
	default:
		return SaveNever, true
	}
}

// readLine reads a line on a separate goroutine while the pump keeps
// running. The returned buffer belongs to the caller.
func (t *Terminal) readLine(ctx context.Context, hidden bool) ([]byte, error) {
	return startRead(func() ([]byte, error) {
		return t.read(hidden)
	}).wait(ctx, t.pump)
}

// pendingRead is a read running on its own goroutine. done is closed once
// the read has returned and its line was handed over or wiped.
type pendingRead struct {
	mu        sync.Mutex
	abandoned bool
	line      []byte
	err       error
	done      chan struct{}
}

func startRead(read func() ([]byte, error)) *pendingRead {
	r := &pendingRead{done: make(chan struct{})}

	go func() {
		defer close(r.done)

		line, err := read()

		r.mu.Lock()
		defer r.mu.Unlock()

		if r.abandoned {
			clear(line[:cap(line)])

			return
		}
		r.line, r.err = line, err
	}()

	return r
}

// wait waits for the read while the pump keeps running. A line that
// arrives after the wait was given up is wiped, since nobody owns it.
func (r *pendingRead) wait(ctx context.Context, pump Pump) ([]byte, error) {
	if werr := await(ctx, pump, r.done); werr != nil {
		r.mu.Lock()
		r.abandoned = true
		clear(r.line[:cap(r.line)])
		r.line = nil
		r.mu.Unlock()

		return nil, fmt.Errorf("(gate-terminal) %w", werr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.line, r.err
}

func (t *Terminal) read(hidden bool) ([]byte, error) {
	t.Lock()
	defer t.Unlock()

	if hidden && t.fd >= 0 {
		restore, err := disableEcho(t.fd)
		if err == nil {
			defer func() {
				restore()
				fmt.Fprintln(t.out)
			}()
		}
	}

	line := make([]byte, 0, 128) //nolint:mnd

	for {
		chunk, err := t.in.ReadSlice('\n')
		if len(line)+len(chunk) > cap(line) {
			grown := make([]byte, len(line), 2*(len(line)+len(chunk)))
			copy(grown, line)
			clear(line)
			line = grown
		}
		line = append(line, chunk...)
		clear(chunk)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
			return line, fmt.Errorf("(gate-terminal) %w", err)
		}

		break
	}

	return bytes.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) printf(format string, a ...any) {
	fmt.Fprintf(t.out, format, a...)
}
