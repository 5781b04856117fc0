package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/desertwitch/diskman/internal/queue"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/google/uuid"
)

// Dispatcher dispatches operations to a [Backend].
type Dispatcher struct {
	ctx       context.Context //nolint:containedctx
	backend   Backend
	poster    Poster
	tracker   *queue.Tracker[uuid.UUID]
	observers []Observer
}

// NewDispatcher returns a pointer to a new [Dispatcher]. Results are
// delivered through poster, which must execute on the loop.
func NewDispatcher(backend Backend, poster Poster, observers ...Observer) *Dispatcher {
	return &Dispatcher{
		ctx:       context.Background(),
		backend:   backend,
		poster:    poster,
		tracker:   queue.NewTracker[uuid.UUID](),
		observers: observers,
	}
}

// Progress returns the statistics of all dispatched operations.
func (d *Dispatcher) Progress() queue.Progress {
	return d.tracker.Progress()
}

// InFlight returns the amount of operations awaiting their result.
func (d *Dispatcher) InFlight() int {
	return d.tracker.InFlight()
}

// Idle returns a channel that is closed once no operations are in flight.
// Chained operations are dispatched from the callbacks of their
// predecessors, so the channel is only closed after the last step.
func (d *Dispatcher) Idle() <-chan struct{} {
	return d.tracker.Idle()
}

// Dispatch validates the request and sends it to the [Backend]. The kind of
// operation is that of params. If validation fails, an error wrapping
// [schema.ErrValidation] is returned, nothing is sent, the callback is never
// called and the caller keeps ownership of userData. Otherwise the callback
// is called exactly once on the loop, after Dispatch has returned.
func (d *Dispatcher) Dispatch(target Target, params schema.Params, cb Callback, userData any, opts ...Option) (*Handle, error) {
	var o dispatchOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := d.check(target, params); err != nil {
		kind := schema.KindUnknown
		if params != nil {
			kind = params.Kind()
		}

		var ref schema.EntityRef
		if target != nil {
			ref = target.Ref()
		}

		slog.Warn("Refused operation before dispatch.",
			"kind", kind,
			"target", ref,
			"err", err,
		)

		return nil, fmt.Errorf("(operation-dispatch) %w", err)
	}

	req := &Request{
		ID:     uuid.New(),
		Target: target,
		Params: params,
		Issued: time.Now(),
	}
	h := newHandle(req)

	d.tracker.Start(req.ID)
	for _, obs := range d.observers {
		obs.Dispatched(req)
	}

	slog.Debug("Dispatched operation.",
		"id", req.ID,
		"kind", req.Kind(),
		"target", target.Ref(),
		"params", params,
	)

	var once sync.Once
	d.backend.Call(d.ctx, req, func(res schema.Result) {
		delivered := false

		once.Do(func() {
			delivered = true
			d.poster.Post(func() {
				d.deliver(h, o.scope, cb, userData, res)
			})
		})

		if !delivered {
			slog.Warn("Dropped extra result for operation.",
				"id", req.ID,
				"kind", req.Kind(),
				"target", target.Ref(),
			)
		}
	})

	return h, nil
}

func (d *Dispatcher) check(target Target, params schema.Params) error {
	if target == nil || target.Ref().IsZero() {
		return schema.ErrNoTarget
	}

	if params == nil {
		return fmt.Errorf("%w: no parameters", schema.ErrInvalidParams)
	}

	return validate(target, params)
}

func (d *Dispatcher) deliver(h *Handle, scope *Scope, cb Callback, userData any, res schema.Result) {
	req := h.req

	defer d.finish(h, res)
	defer release(userData)

	if res.Failed() {
		slog.Debug("Operation failed.", "id", req.ID, "kind", req.Kind(), "target", req.Target.Ref(), "err", res.Err)
	} else {
		slog.Debug("Operation completed.", "id", req.ID, "kind", req.Kind(), "target", req.Target.Ref())
	}

	if scope.Closed() {
		slog.Debug("Skipped callback of operation for closed view.", "id", req.ID, "kind", req.Kind())

		return
	}

	if cb != nil {
		cb(req.Target, res, userData)
	}
}

func (d *Dispatcher) finish(h *Handle, res schema.Result) {
	for _, obs := range d.observers {
		obs.Completed(h.req, res)
	}

	h.complete(res)
	d.tracker.Finish(h.req.ID, res.Failed())
}

func release(userData any) {
	if r, ok := userData.(Releaser); ok && r != nil {
		r.Release()
	}
}
