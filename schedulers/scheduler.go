// Package schedulers provides the execution contexts work can be dispatched onto: a pool of
// background workers, a single goroutine loop that owns UI state, and synchronous stand-ins.
package schedulers

import (
	"errors"
	"fmt"

	"github.com/ducka/go-kayak-animals/instrumentation"
)

// ErrClosed is returned when a task is scheduled on a scheduler that has been closed.
var ErrClosed = errors.New("scheduler is closed")

type Scheduler interface {
	// Schedule submits the task for execution. It never waits for the task to run.
	Schedule(task func()) error
	Name() string
}

// Immediate runs every task on the calling goroutine before Schedule returns.
func Immediate() Scheduler {
	return immediate{}
}

type immediate struct{}

func (immediate) Schedule(task func()) error {
	task()
	return nil
}

func (immediate) Name() string {
	return "immediate"
}

// NewThread runs every task on a goroutine of its own.
func NewThread() Scheduler {
	return newThread{}
}

type newThread struct{}

func (newThread) Schedule(task func()) error {
	go execute("new-thread", task)
	return nil
}

func (newThread) Name() string {
	return "new-thread"
}

// execute keeps a panicking task from taking its worker down with it.
func execute(name string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			instrumentation.Logging().Error(name, fmt.Sprintf("task panicked: %v", r))
		}
	}()
	task()
}
