package operation

import (
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/google/uuid"
)

// Handle refers to a dispatched request.
type Handle struct {
	req    *Request
	done   chan struct{}
	result schema.Result
}

func newHandle(req *Request) *Handle {
	return &Handle{
		req:  req,
		done: make(chan struct{}),
	}
}

// ID returns the id of the request.
func (h *Handle) ID() uuid.UUID {
	return h.req.ID
}

// Request returns the request.
func (h *Handle) Request() *Request {
	return h.req
}

// Done returns a channel that is closed once the result was delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result returns the result of the request, if it was delivered yet.
func (h *Handle) Result() (schema.Result, bool) {
	select {
	case <-h.done:
		return h.result, true
	default:
		return schema.Result{}, false
	}
}

func (h *Handle) complete(res schema.Result) {
	h.result = res
	close(h.done)
}
