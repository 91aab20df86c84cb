package schedulers

import (
	"sync"
)

// Loop runs tasks one at a time, in the order they were scheduled, on a single goroutine. It is
// the execution context that owns UI state: anything touching that state is scheduled here.
type Loop struct {
	name string

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

func NewLoop(name string) *Loop {
	l := &Loop{
		name: name,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	go l.run()

	return l
}

// Schedule appends the task to the loop's queue. The queue is unbounded so scheduling never blocks.
func (l *Loop) Schedule(task func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	l.signal()
	return nil
}

// Run executes the task on the loop and waits for it to finish. Calling Run from the loop itself
// deadlocks.
func (l *Loop) Run(task func()) error {
	finished := make(chan struct{})

	err := l.Schedule(func() {
		defer close(finished)
		task()
	})
	if err != nil {
		return err
	}

	<-finished
	return nil
}

func (l *Loop) Name() string {
	return l.name
}

// Close stops accepting tasks, lets the queued ones run and waits for the loop goroutine to exit.
// It must not be called from a task running on the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.signal()
	<-l.done
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			closed := l.closed
			l.mu.Unlock()

			if closed {
				return
			}

			<-l.wake
			continue
		}

		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		execute(l.name, task)
	}
}
