package observe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ducka/go-kayak-animals/utils"
	"github.com/robfig/cron/v3"
)

var (
	// ErrProducerPanicked is the failure a subscription terminates with when its producer panics.
	ErrProducerPanicked = errors.New("producer panicked")

	ErrInvalidInterval = errors.New("interval must be positive")

	// ErrDisposed ends the result of ToResult when the subscription was disposed before it terminated.
	ErrDisposed = errors.New("subscription disposed before it terminated")
)

type (
	// ProducerFunc emits items through the StreamWriter. Returning without writing a terminal
	// notification completes the stream.
	ProducerFunc[T any] func(streamWriter StreamWriter[T])
)

// Producer observes items produced by a callback function. The callback runs once per subscription.
func Producer[T any](producer ProducerFunc[T], opts ...ObservableOption) *Observable[T] {
	return newObservable[T](producer, opts...)
}

// Just emits the given values in order and then completes.
func Just[T any](values ...T) *Observable[T] {
	return Sequence(values)
}

// Sequence emits the items of the slice in order and then completes. The slice is copied, so later
// changes to it are not observed.
func Sequence[T any](sequence []T, opts ...ObservableOption) *Observable[T] {
	items := append([]T(nil), sequence...)

	return newObservable[T](func(streamWriter StreamWriter[T]) {
		for _, item := range items {
			if !streamWriter.Write(item) {
				return
			}
		}
	}, opts...)
}

// Empty is an observable that emits nothing. This observable completes immediately.
func Empty[T any](opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(streamWriter StreamWriter[T]) {}, opts...)
}

// Throw is an observable that fails immediately with err.
func Throw[T any](err error, opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(streamWriter StreamWriter[T]) {
		streamWriter.Error(err)
	}, opts...)
}

// Range observes a range of generated integers
func Range(start, count int, opts ...ObservableOption) *Observable[int] {
	return newObservable[int](func(streamWriter StreamWriter[int]) {
		for i := 0; i < count; i++ {
			if !streamWriter.Write(start + i) {
				return
			}
		}
	}, opts...)
}

// Timer is an observable that emits the time on a specified interval until the subscription is disposed.
// A non-positive interval fails every subscription with ErrInvalidInterval.
func Timer(interval time.Duration, opts ...ObservableOption) *Observable[time.Time] {
	return newObservable[time.Time](func(streamWriter StreamWriter[time.Time]) {
		if interval <= 0 {
			streamWriter.Error(fmt.Errorf("%w: %s", ErrInvalidInterval, interval))
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-streamWriter.Done():
				return
			case t := <-ticker.C:
				if !streamWriter.Write(t) {
					return
				}
			}
		}
	}, opts...)
}

// Cron is an observable that emits items on a specified cron schedule until the subscription is disposed
func Cron(cronPattern string, opts ...ObservableOption) (*Observable[time.Time], error) {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)

	schedule, err := parser.Parse(cronPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron pattern: %w", err)
	}

	return newObservable[time.Time](func(streamWriter StreamWriter[time.Time]) {
		for {
			next := schedule.Next(time.Now())
			timer := time.NewTimer(time.Until(next))

			select {
			case <-streamWriter.Done():
				timer.Stop()
				return
			case <-timer.C:
				if !streamWriter.Write(next) {
					return
				}
			}
		}
	}, opts...), nil
}

func newObservable[T any](producer ProducerFunc[T], options ...ObservableOption) *Observable[T] {
	opts := newObservableOptions()

	for _, opt := range options {
		opt(&opts)
	}

	return &Observable[T]{
		opts:     opts,
		producer: producer,
	}
}

// Observable is a cold, restartable source: nothing is produced until Subscribe is called, and every
// subscription runs the producer from the start.
type Observable[T any] struct {
	opts observableOptions
	// producer is a function that produces the items of a single subscription
	producer ProducerFunc[T]
}

// Subscribe connects the observer to a fresh run of the producer and returns the subscription's
// cancellation handle. The handle is passed to the observer's OnSubscribe before Subscribe returns.
// Production is dispatched onto the SubscribeOn scheduler and never blocks the caller unless that
// scheduler is Immediate, which is the default.
func (o *Observable[T]) Subscribe(observer Observer[T], options ...SubscribeOption) Disposable {
	d, _ := o.subscribe(observer, options...)
	return d
}

func (o *Observable[T]) subscribe(observer Observer[T], options ...SubscribeOption) (*disposable, *subscription[T]) {
	opts := newSubscribeOptions()
	for _, opt := range options {
		opt(&opts)
	}

	ctx, cancel := utils.MergeContexts(o.opts.ctx, opts.ctx)
	d := newDisposable(cancel)
	sub := newSubscription[T](o.opts.activity, d, observer, opts.observeOn, o.opts.logger)

	o.opts.logger.Debug(o.opts.activity, fmt.Sprintf(
		"subscription %s: subscribe on %s, observe on %s", d.ID(), opts.subscribeOn.Name(), opts.observeOn.Name(),
	))
	o.opts.metrics.Incr(o.opts.activity, "subscription_started", 1)

	observer.OnSubscribe(d)

	// The observer may have disposed the subscription from OnSubscribe.
	if d.IsDisposed() {
		sub.finish()
		return d, sub
	}

	now := time.Now()
	err := opts.subscribeOn.Schedule(func() {
		o.opts.metrics.Timing(o.opts.activity, "subscribe_dispatch", time.Since(now))
		o.produce(ctx, sub)
	})
	if err != nil {
		newStream[T](ctx, sub).Error(fmt.Errorf("subscribe on %s: %w", opts.subscribeOn.Name(), err))
	}

	return d, sub
}

func (o *Observable[T]) produce(ctx context.Context, sub *subscription[T]) {
	streamWriter := newStream[T](ctx, sub)

	// Fail the stream as soon as the context is done, even if the producer is blocked.
	stop := context.AfterFunc(ctx, func() {
		streamWriter.Error(ctx.Err())
	})
	defer stop()

	if err := o.runProducer(streamWriter); err != nil {
		o.opts.logger.Error(o.opts.activity, fmt.Sprintf("subscription %s: %v", sub.disposable.ID(), err))
		streamWriter.Error(err)
		return
	}

	if err := ctx.Err(); err != nil {
		streamWriter.Error(err)
		return
	}

	streamWriter.Complete()
}

// runProducer runs the producer, turning a panic into an error so the subscription still terminates.
func (o *Observable[T]) runProducer(streamWriter StreamWriter[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanicked, r)
		}
	}()

	o.producer(streamWriter)
	return nil
}

// ToResult synchronously observes the observable and returns the emitted notifications, terminal
// notification included. This function will block until the observable terminates. When the
// subscription is disposed without terminating, because events could no longer be delivered, the
// result ends with an ErrDisposed failure.
func (o *Observable[T]) ToResult(options ...SubscribeOption) []Notification[T] {
	notifications := make([]Notification[T], 0)
	terminated := false

	_, sub := o.subscribe(ObserverFuncs[T]{
		Next: func(v T) {
			notifications = append(notifications, Next(v))
		},
		Error: func(err error) {
			notifications = append(notifications, Error[T](err))
			terminated = true
		},
		Complete: func() {
			notifications = append(notifications, Complete[T]())
			terminated = true
		},
	}, options...)

	<-sub.Finished()

	if !terminated {
		notifications = append(notifications, Error[T](ErrDisposed))
	}

	return notifications
}
