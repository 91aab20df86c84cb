package observe

import (
	"context"
	"sync"
)

// StreamWriter is handed to a producer to emit items into a subscription.
type StreamWriter[T any] interface {
	// Write emits a value. It returns false once the subscription has been disposed or terminated,
	// at which point the producer should stop.
	Write(value T) bool
	// Error terminates the stream with err.
	Error(err error)
	// Complete terminates the stream successfully.
	Complete()
	// Done is closed when the subscription no longer wants items.
	Done() <-chan struct{}
}

type stream[T any] struct {
	// serialises emissions so the delivery queue sees them in the order they were written
	mu  *sync.Mutex
	ctx context.Context
	sub *subscription[T]
	// terminated is a flag that indicates a terminal notification has been written
	terminated bool
}

var _ StreamWriter[any] = (*stream[any])(nil)

func newStream[T any](ctx context.Context, sub *subscription[T]) *stream[T] {
	return &stream[T]{
		mu:  new(sync.Mutex),
		ctx: ctx,
		sub: sub,
	}
}

func (s *stream[T]) Write(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated || s.sub.disposable.IsDisposed() {
		return false
	}

	if err := s.ctx.Err(); err != nil {
		s.terminateLocked(Error[T](err))
		return false
	}

	s.sub.push(Next[T](value))
	return true
}

func (s *stream[T]) Error(err error) {
	s.terminate(Error[T](err))
}

func (s *stream[T]) Complete() {
	s.terminate(Complete[T]())
}

func (s *stream[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *stream[T]) terminate(n Notification[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminateLocked(n)
}

func (s *stream[T]) terminateLocked(n Notification[T]) {
	if s.terminated {
		return
	}
	s.terminated = true

	if s.sub.disposable.IsDisposed() {
		return
	}

	s.sub.push(n)
}
