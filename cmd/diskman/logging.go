package main

import (
	"context"
	"log/slog"
	"sync"
)

// Names of the handlers of the [SlogManager].
const (
	handlerTerminal = "terminal"
	handlerUI       = "ui"
)

// SlogManager is a [slog.Handler] that fans records out to a changing set of
// named handlers. The terminal user interface swaps the terminal handler for
// its own while it is running.
type SlogManager struct {
	sync.RWMutex
	handlers map[string]slog.Handler
	attrs    []slog.Attr
	groups   []string
}

// NewSlogManager returns a pointer to a new [SlogManager] without handlers.
func NewSlogManager() *SlogManager {
	return &SlogManager{
		handlers: make(map[string]slog.Handler),
	}
}

func (m *SlogManager) Enabled(ctx context.Context, level slog.Level) bool {
	m.RLock()
	defer m.RUnlock()

	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (m *SlogManager) Handle(ctx context.Context, r slog.Record) error {
	m.RLock()
	defer m.RUnlock()

	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}

	return nil
}

// WithAttrs returns a new [SlogManager] whose handlers carry the attributes.
// Handlers added to it later receive them as well.
func (m *SlogManager) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) },
		func(c *SlogManager) { c.attrs = append(c.attrs, attrs...) })
}

// WithGroup returns a new [SlogManager] whose handlers use the group.
func (m *SlogManager) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}

	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) },
		func(c *SlogManager) { c.groups = append(c.groups, name) })
}

func (m *SlogManager) derive(wrap func(slog.Handler) slog.Handler, amend func(*SlogManager)) *SlogManager {
	m.RLock()
	defer m.RUnlock()

	c := &SlogManager{
		handlers: make(map[string]slog.Handler, len(m.handlers)),
		attrs:    append([]slog.Attr(nil), m.attrs...),
		groups:   append([]string(nil), m.groups...),
	}
	amend(c)

	for name, h := range m.handlers {
		c.handlers[name] = wrap(h)
	}

	return c
}

// AddHandler adds or replaces a named handler. The attributes and groups of
// the [SlogManager] are applied to it.
func (m *SlogManager) AddHandler(name string, handler slog.Handler) {
	m.Lock()
	defer m.Unlock()

	h := handler
	if len(m.attrs) > 0 {
		h = h.WithAttrs(m.attrs)
	}

	for _, group := range m.groups {
		h = h.WithGroup(group)
	}

	m.handlers[name] = h
}

// RemoveHandler removes a named handler, if it exists.
func (m *SlogManager) RemoveHandler(name string) {
	m.Lock()
	defer m.Unlock()

	delete(m.handlers, name)
}

// HasHandler reports if a named handler exists.
func (m *SlogManager) HasHandler(name string) bool {
	m.RLock()
	defer m.RUnlock()

	_, ok := m.handlers[name]

	return ok
}
