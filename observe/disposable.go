package observe

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Disposable is the cancellation handle of a subscription. Disposing it asks the producer to stop
// and prevents every event that hasn't started being delivered from reaching the observer.
type Disposable interface {
	// Dispose is idempotent. Disposing a subscription that has already terminated does nothing.
	Dispose()
	IsDisposed() bool
	// ID identifies the subscription in logs.
	ID() uuid.UUID
}

type disposable struct {
	id       uuid.UUID
	disposed atomic.Bool
	cancel   context.CancelFunc
}

var _ Disposable = (*disposable)(nil)

func newDisposable(cancel context.CancelFunc) *disposable {
	return &disposable{
		id:     uuid.New(),
		cancel: cancel,
	}
}

// Disposed returns a handle that is already disposed. It stands in wherever a handle is needed
// before a subscription exists.
func Disposed() Disposable {
	d := &disposable{id: uuid.Nil, cancel: func() {}}
	d.disposed.Store(true)
	return d
}

func (d *disposable) Dispose() {
	d.dispose()
}

// dispose reports whether this call was the one that disposed the handle.
func (d *disposable) dispose() bool {
	if !d.disposed.CompareAndSwap(false, true) {
		return false
	}
	d.cancel()
	return true
}

func (d *disposable) IsDisposed() bool {
	return d.disposed.Load()
}

func (d *disposable) ID() uuid.UUID {
	return d.id
}
