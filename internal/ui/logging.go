package ui

import (
	"fmt"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

const logBuffer = 256

// teaProgramProvider is the part of a [tea.Program] that messages are sent
// through.
type teaProgramProvider interface {
	Send(msg tea.Msg)
}

// LogMsg is one log line, without its line break, for the messages panel.
type LogMsg string

// TeaLogWriter is an [io.Writer] for a [slog.Handler] that forwards every
// record to a [tea.Program]. Writes never block: when the program falls
// behind, lines are dropped and the amount is reported with the next line.
type TeaLogWriter struct {
	program  teaProgramProvider
	doneChan chan struct{}
	logChan  chan LogMsg
	dropped  atomic.Int64
}

// NewTeaLogWriter returns a pointer to a new [TeaLogWriter] that forwards
// lines until [TeaLogWriter.Stop] is called.
func NewTeaLogWriter(program teaProgramProvider) *TeaLogWriter {
	wr := &TeaLogWriter{
		program:  program,
		doneChan: make(chan struct{}),
		logChan:  make(chan LogMsg, logBuffer),
	}

	go wr.forward()

	return wr
}

// Stop stops forwarding, later lines are discarded.
func (wr *TeaLogWriter) Stop() {
	close(wr.doneChan)
}

func (wr *TeaLogWriter) forward() {
	for {
		select {
		case <-wr.doneChan:
			return
		case msg := <-wr.logChan:
			if n := wr.dropped.Swap(0); n > 0 {
				wr.program.Send(LogMsg(fmt.Sprintf("(%d log messages were dropped)", n)))
			}
			wr.program.Send(msg)
		}
	}
}

// Write implements [io.Writer]. A write holding several lines is split.
func (wr *TeaLogWriter) Write(p []byte) (int, error) {
	select {
	case <-wr.doneChan:
		return len(p), nil
	default:
	}

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		select {
		case wr.logChan <- LogMsg(line):
		default:
			wr.dropped.Add(1)
		}
	}

	return len(p), nil
}
