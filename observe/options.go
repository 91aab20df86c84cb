package observe

import (
	"context"

	"github.com/ducka/go-kayak-animals/instrumentation"
	"github.com/ducka/go-kayak-animals/schedulers"
)

const defaultActivity = "observable"

type observableOptions struct {
	ctx      context.Context
	activity string
	logger   instrumentation.Logger
	metrics  instrumentation.Measurer
}

func newObservableOptions() observableOptions {
	return observableOptions{
		ctx:      context.Background(),
		activity: defaultActivity,
		logger:   instrumentation.Logging(),
		metrics:  instrumentation.Metrics(),
	}
}

type ObservableOption func(options *observableOptions)

// WithContext ties the observable to ctx. Once ctx is done every subscription fails with ctx.Err().
func WithContext(ctx context.Context) ObservableOption {
	return func(options *observableOptions) {
		options.ctx = ctx
	}
}

func WithActivityName(activityName string) ObservableOption {
	return func(options *observableOptions) {
		options.activity = activityName
	}
}

func WithLogger(logger instrumentation.Logger) ObservableOption {
	return func(options *observableOptions) {
		if logger != nil {
			options.logger = logger
		}
	}
}

func WithMeasurer(measurer instrumentation.Measurer) ObservableOption {
	return func(options *observableOptions) {
		if measurer != nil {
			options.metrics = measurer
		}
	}
}

type subscribeOptions struct {
	ctx         context.Context
	subscribeOn schedulers.Scheduler
	observeOn   schedulers.Scheduler
}

func newSubscribeOptions() subscribeOptions {
	return subscribeOptions{
		ctx:         context.Background(),
		subscribeOn: schedulers.Immediate(),
		observeOn:   schedulers.Immediate(),
	}
}

type SubscribeOption func(options *subscribeOptions)

// SubscribeOn dispatches the work of producing items onto the scheduler.
func SubscribeOn(scheduler schedulers.Scheduler) SubscribeOption {
	return func(options *subscribeOptions) {
		if scheduler != nil {
			options.subscribeOn = scheduler
		}
	}
}

// ObserveOn delivers the observer's OnNext, OnError and OnComplete calls on the scheduler.
func ObserveOn(scheduler schedulers.Scheduler) SubscribeOption {
	return func(options *subscribeOptions) {
		if scheduler != nil {
			options.observeOn = scheduler
		}
	}
}

// WithSubscriptionContext scopes a single subscription to ctx, in addition to the observable's own context.
func WithSubscriptionContext(ctx context.Context) SubscribeOption {
	return func(options *subscribeOptions) {
		options.ctx = ctx
	}
}
