package observe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SubscriberMock[T any] struct {
	mock.Mock
}

func (s *SubscriberMock[T]) OnSubscribe(d Disposable) {
	s.Called(d)
}

func (s *SubscriberMock[T]) OnNext(next T) {
	s.Called(next)
}

func (s *SubscriberMock[T]) OnError(err error) {
	s.Called(err)
}

func (s *SubscriberMock[T]) OnComplete() {
	s.Called()
}

// makeSubscriber expects OnSubscribe, then OnNext for every int in the sequence up to the first error,
// then OnError for that error or OnComplete if there wasn't one.
func makeSubscriber(sequence ...any) *SubscriberMock[int] {
	subscriber := &SubscriberMock[int]{}
	calls := []*mock.Call{subscriber.On("OnSubscribe", mock.Anything).Return().Once()}

	for _, v := range sequence {
		if err, ok := v.(error); ok {
			subscriber.On("OnError", err).Return().NotBefore(calls...).Once()
			return subscriber
		}

		calls = append(calls, subscriber.On("OnNext", v.(int)).Return().NotBefore(calls...).Once())
	}

	subscriber.On("OnComplete").Return().NotBefore(calls...).Once()

	return subscriber
}

func produceSequence(sequence ...any) ProducerFunc[int] {
	return func(stream StreamWriter[int]) {
		for _, v := range sequence {
			if err, ok := v.(error); ok {
				stream.Error(err)
				continue
			}

			stream.Write(v.(int))
		}
	}
}

// recordingObserver records every event it receives. probe, when set, is evaluated inside each
// OnNext, OnError and OnComplete call and its results are kept alongside.
type recordingObserver[T any] struct {
	mu         sync.Mutex
	handle     Disposable
	events     []Notification[T]
	probes     []bool
	probe      func() bool
	onNext     func(d Disposable, v T)
	terminated chan struct{}
}

func newRecordingObserver[T any]() *recordingObserver[T] {
	return &recordingObserver[T]{
		probe:      func() bool { return true },
		terminated: make(chan struct{}),
	}
}

func (r *recordingObserver[T]) OnSubscribe(d Disposable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = d
}

func (r *recordingObserver[T]) OnNext(v T) {
	r.record(Next(v))
	if r.onNext != nil {
		r.onNext(r.Handle(), v)
	}
}

func (r *recordingObserver[T]) OnError(err error) {
	r.record(Error[T](err))
	close(r.terminated)
}

func (r *recordingObserver[T]) OnComplete() {
	r.record(Complete[T]())
	close(r.terminated)
}

func (r *recordingObserver[T]) record(n Notification[T]) {
	probe := r.probe()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
	r.probes = append(r.probes, probe)
}

func (r *recordingObserver[T]) Handle() Disposable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

func (r *recordingObserver[T]) Events() []Notification[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification[T](nil), r.events...)
}

func (r *recordingObserver[T]) Probes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.probes...)
}

func (r *recordingObserver[T]) waitTerminated(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-r.terminated:
	case <-time.After(timeout):
		t.Fatalf("observer was not terminated within %v", timeout)
	}
}

func values[T any](notifications []Notification[T]) []T {
	out := make([]T, 0, len(notifications))
	for _, n := range notifications {
		if n.Kind() == NextKind {
			out = append(out, n.Value())
		}
	}
	return out
}

func countKind[T any](notifications []Notification[T], kind NotificationKind) int {
	count := 0
	for _, n := range notifications {
		if n.Kind() == kind {
			count++
		}
	}
	return count
}

func assertTerminatesLast[T any](t *testing.T, notifications []Notification[T]) {
	t.Helper()
	for i, n := range notifications {
		if n.IsTerminal() {
			assert.Equal(t, len(notifications)-1, i, "terminal notification should be the last one")
		}
	}
}
