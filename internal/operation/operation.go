// Package operation implements the dispatcher of device operations.
//
// A [Dispatcher] turns a confirmed user intent into exactly one outbound call
// to a [Backend] (the disk-management daemon) and delivers exactly one
// [schema.Result] to the given [Callback], asynchronously and always on the
// loop. Requests with an absent or ineligible target are refused
// synchronously with a validation error, before anything is sent.
//
// The opaque user data passed to [Dispatcher.Dispatch] is owned by the
// dispatcher until the callback has returned. Afterwards it is released if
// it implements [Releaser], also when the callback was skipped because the
// issuing [Scope] was closed in the meantime.
package operation

import (
	"context"
	"time"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/google/uuid"
)

// Target is the entity an operation is directed at.
type Target interface {
	Ref() schema.EntityRef
	Device() *model.Device
}

// Callback receives the result of a dispatched operation.
type Callback func(target Target, res schema.Result, userData any)

// Releaser is implemented by user data that holds resources, such as
// passphrases, which must be released once an operation is complete.
type Releaser interface {
	Release()
}

// Poster schedules a function for execution on the loop.
type Poster interface {
	Post(fn func())
}

// Backend executes requests. It must invoke reply once the outcome of the
// request is known, from any goroutine.
type Backend interface {
	Call(ctx context.Context, req *Request, reply func(schema.Result))
}

// Observer is notified about requests that were dispatched and completed.
// Both methods are called on the loop.
type Observer interface {
	Dispatched(req *Request)
	Completed(req *Request, res schema.Result)
}

// Request is a dispatched operation.
type Request struct {
	ID     uuid.UUID
	Target Target
	Params schema.Params
	Issued time.Time
}

// Kind returns the kind of operation.
func (r *Request) Kind() schema.Kind {
	return r.Params.Kind()
}

type deviceTarget struct {
	dev *model.Device
}

func (t deviceTarget) Ref() schema.EntityRef { return t.dev.Ref() }
func (t deviceTarget) Device() *model.Device { return t.dev }

// ForDevice returns the [Target] for a device, or nil if dev is nil.
func ForDevice(dev *model.Device) Target { //nolint:ireturn
	if dev == nil {
		return nil
	}

	return deviceTarget{dev: dev}
}

type presentableTarget struct {
	p model.Presentable
}

func (t presentableTarget) Device() *model.Device { return t.p.Device() }

func (t presentableTarget) Ref() schema.EntityRef {
	if d := t.p.Device(); d != nil {
		return d.Ref()
	}

	return schema.EntityRef(t.p.ID())
}

// ForPresentable returns the [Target] for a presentable, which may not have
// a device. It returns nil if p is nil.
func ForPresentable(p model.Presentable) Target { //nolint:ireturn
	if p == nil {
		return nil
	}

	return presentableTarget{p: p}
}
