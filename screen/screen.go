// Package screen contains the animals screen: on creation it subscribes a logging observer to a
// fixed sequence of animal names, producing on a worker and delivering on the UI loop, and on
// destruction it releases that subscription.
package screen

import (
	"sync"

	"github.com/ducka/go-kayak-animals/instrumentation"
	"github.com/ducka/go-kayak-animals/observe"
	"github.com/ducka/go-kayak-animals/schedulers"
)

// Tag is the activity every line logged by the screen is tagged with.
const Tag = "AnimalsScreen"

type Option func(s *AnimalsScreen)

// WithWorker sets the scheduler the animals are produced on.
func WithWorker(scheduler schedulers.Scheduler) Option {
	return func(s *AnimalsScreen) {
		if scheduler != nil {
			s.worker = scheduler
		}
	}
}

// WithUI sets the scheduler events are delivered and logged on.
func WithUI(scheduler schedulers.Scheduler) Option {
	return func(s *AnimalsScreen) {
		if scheduler != nil {
			s.ui = scheduler
		}
	}
}

func WithLogger(logger instrumentation.Logger) Option {
	return func(s *AnimalsScreen) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMeasurer(measurer instrumentation.Measurer) Option {
	return func(s *AnimalsScreen) {
		if measurer != nil {
			s.metrics = measurer
		}
	}
}

type AnimalsScreen struct {
	worker  schedulers.Scheduler
	ui      schedulers.Scheduler
	logger  instrumentation.Logger
	metrics instrumentation.Measurer

	// disposable is only read and written on the UI loop
	disposable observe.Disposable

	done     chan struct{}
	doneOnce sync.Once
}

// NewAnimalsScreen builds the screen. Both schedulers default to Immediate, which runs everything
// on the goroutine driving the lifecycle.
func NewAnimalsScreen(opts ...Option) *AnimalsScreen {
	s := &AnimalsScreen{
		worker:  schedulers.Immediate(),
		ui:      schedulers.Immediate(),
		logger:  instrumentation.Logging(),
		metrics: instrumentation.Metrics(),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *AnimalsScreen) OnCreate() {
	if s.disposable != nil {
		s.logger.Warn(Tag, "onCreate: releasing the previous subscription")
		s.release()
	}

	animalsObservable := s.animalsObservable()
	animalsObserver := s.animalObserver()

	animalsObservable.Subscribe(
		animalsObserver,
		observe.SubscribeOn(s.worker),
		observe.ObserveOn(s.ui),
	)
}

func (s *AnimalsScreen) OnDestroy() {
	defer s.finish()

	// don't send events once the screen is destroyed
	if s.disposable == nil {
		s.logger.Debug(Tag, "onDestroy: no subscription to release")
		return
	}

	s.release()
}

// Done is closed once the subscription has terminated or the screen has been destroyed.
func (s *AnimalsScreen) Done() <-chan struct{} {
	return s.done
}

func (s *AnimalsScreen) release() {
	s.disposable.Dispose()
	s.disposable = nil
	s.metrics.Incr(Tag, "subscription_released", 1)
}

func (s *AnimalsScreen) finish() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *AnimalsScreen) animalsObservable() *observe.Observable[string] {
	return observe.Just("Ant", "Bee", "Cat", "Dog", "Fox")
}

func (s *AnimalsScreen) animalObserver() observe.Observer[string] {
	return observe.ObserverFuncs[string]{
		Subscribe: func(d observe.Disposable) {
			s.logger.Debug(Tag, "onSubscribe")
			s.disposable = d
		},
		Next: func(name string) {
			s.logger.Debug(Tag, "Name: "+name)
		},
		Error: func(err error) {
			s.logger.Error(Tag, "onError: "+err.Error())
			s.finish()
		},
		Complete: func() {
			s.logger.Debug(Tag, "All items are emitted!")
			s.finish()
		},
	}
}
