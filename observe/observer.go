package observe

// Observer receives the events of one subscription. OnSubscribe is called first, on the goroutine
// that called Subscribe. OnNext may then be called any number of times, followed by at most one of
// OnError or OnComplete. Calls are never concurrent with each other.
type Observer[T any] interface {
	OnSubscribe(d Disposable)
	OnNext(value T)
	OnError(err error)
	OnComplete()
}

// ObserverFuncs adapts plain functions to an Observer. Nil functions are skipped.
type ObserverFuncs[T any] struct {
	Subscribe func(d Disposable)
	Next      func(value T)
	Error     func(err error)
	Complete  func()
}

var _ Observer[any] = ObserverFuncs[any]{}

func (o ObserverFuncs[T]) OnSubscribe(d Disposable) {
	if o.Subscribe != nil {
		o.Subscribe(d)
	}
}

func (o ObserverFuncs[T]) OnNext(value T) {
	if o.Next != nil {
		o.Next(value)
	}
}

func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

func (o ObserverFuncs[T]) OnComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}
