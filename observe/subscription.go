package observe

import (
	"fmt"
	"sync"

	"github.com/ducka/go-kayak-animals/instrumentation"
	"github.com/ducka/go-kayak-animals/schedulers"
)

// subscription queues the notifications of one subscriber and drains them on the observeOn
// scheduler. At most one drain is scheduled at a time, so the observer is never called
// concurrently and sees notifications in the order they were pushed.
type subscription[T any] struct {
	activity   string
	disposable *disposable
	observer   Observer[T]
	scheduler  schedulers.Scheduler
	logger     instrumentation.Logger

	mu       sync.Mutex
	queue    []Notification[T]
	draining bool

	// finished is closed once the observer will not be called again
	finished   chan struct{}
	finishOnce sync.Once
}

func newSubscription[T any](
	activity string,
	disposable *disposable,
	observer Observer[T],
	scheduler schedulers.Scheduler,
	logger instrumentation.Logger,
) *subscription[T] {
	return &subscription[T]{
		activity:   activity,
		disposable: disposable,
		observer:   observer,
		scheduler:  scheduler,
		logger:     logger,
		finished:   make(chan struct{}),
	}
}

func (s *subscription[T]) push(n Notification[T]) {
	s.mu.Lock()
	s.queue = append(s.queue, n)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	if err := s.scheduler.Schedule(s.drain); err != nil {
		// Nothing can reach the observer any more, so stop the producer.
		s.logger.Error(s.activity, fmt.Sprintf("subscription %s: observe on %s: %v", s.disposable.ID(), s.scheduler.Name(), err))
		s.disposable.dispose()
		s.finish()
	}
}

func (s *subscription[T]) drain() {
	defer func() {
		if r := recover(); r != nil {
			// No more events reach an observer that panicked.
			s.logger.Error(s.activity, fmt.Sprintf("subscription %s: observer panicked: %v", s.disposable.ID(), r))
			s.disposable.dispose()

			s.mu.Lock()
			s.queue = nil
			s.draining = false
			s.mu.Unlock()

			s.finish()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.disposable.IsDisposed() {
			disposed := s.disposable.IsDisposed()
			s.queue = nil
			s.draining = false
			s.mu.Unlock()

			if disposed {
				s.finish()
			}
			return
		}
		n := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(n)
	}
}

func (s *subscription[T]) deliver(n Notification[T]) {
	switch n.Kind() {
	case NextKind:
		s.observer.OnNext(n.Value())
	case ErrorKind:
		if s.disposable.dispose() {
			s.observer.OnError(n.Err())
		}
		s.finish()
	case CompleteKind:
		if s.disposable.dispose() {
			s.observer.OnComplete()
		}
		s.finish()
	}
}

// Finished is closed once the observer will not be called again: after a terminal callback has
// returned, or once a disposed subscription has nothing left in flight.
func (s *subscription[T]) Finished() <-chan struct{} {
	return s.finished
}

func (s *subscription[T]) finish() {
	s.finishOnce.Do(func() {
		close(s.finished)
	})
}
