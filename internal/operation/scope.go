package operation

import "sync/atomic"

// Scope is the lifetime of the view that issued operations. Results arriving
// after the scope was closed are not passed to their callbacks.
type Scope struct {
	closed atomic.Bool
}

// NewScope returns a pointer to a new open [Scope].
func NewScope() *Scope {
	return &Scope{}
}

// Close closes the scope.
func (s *Scope) Close() {
	s.closed.Store(true)
}

// Closed reports if the scope was closed. A nil scope is never closed.
func (s *Scope) Closed() bool {
	return s != nil && s.closed.Load()
}

// Option configures a single dispatch.
type Option func(*dispatchOptions)

type dispatchOptions struct {
	scope *Scope
}

// InScope ties the delivery of the result to a [Scope].
func InScope(s *Scope) Option {
	return func(o *dispatchOptions) {
		o.scope = s
	}
}
