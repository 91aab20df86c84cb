package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ducka/go-kayak-animals/instrumentation"
	"github.com/ducka/go-kayak-animals/schedulers"
	"github.com/imkira/go-observer/v2"
)

const activity = "host"

type State string

const (
	// Initialized is the state of a host that hasn't launched a screen yet
	Initialized State = "initialized"
	// Created indicates the screen's OnCreate has returned
	Created State = "created"
	// Destroyed indicates the screen's OnDestroy has returned. It is final.
	Destroyed State = "destroyed"
)

var (
	ErrAlreadyLaunched  = errors.New("screen has already been launched")
	ErrNotLaunched      = errors.New("screen has not been launched")
	ErrAlreadyDestroyed = errors.New("screen has already been destroyed")
)

// Screen is implemented by anything the host can drive through a lifecycle. Both callbacks run on
// the UI loop.
type Screen interface {
	OnCreate()
	OnDestroy()
}

// UILoop is the single goroutine execution context screens are driven on.
type UILoop interface {
	schedulers.Scheduler
	// Run executes the task on the loop and waits for it to finish.
	Run(task func()) error
}

type Option func(h *Host)

func WithLogger(logger instrumentation.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Host drives one screen through Initialized → Created → Destroyed.
type Host struct {
	ui     UILoop
	logger instrumentation.Logger

	// serialises lifecycle transitions
	mu        sync.Mutex
	screen    Screen
	lifecycle observer.Property[State]
}

func New(ui UILoop, opts ...Option) *Host {
	if ui == nil {
		panic("ui loop must be specified")
	}

	h := &Host{
		ui:        ui,
		logger:    instrumentation.Logging(),
		lifecycle: observer.NewProperty[State](Initialized),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// UI is the scheduler screens should deliver UI work onto.
func (h *Host) UI() schedulers.Scheduler {
	return h.ui
}

func (h *Host) State() State {
	return h.lifecycle.Value()
}

// Lifecycle returns a stream of lifecycle states, starting from the current one.
func (h *Host) Lifecycle() observer.Stream[State] {
	return h.lifecycle.Observe()
}

// Launch runs the screen's OnCreate on the UI loop and waits for it to return.
func (h *Host) Launch(screen Screen) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.State() {
	case Created:
		return ErrAlreadyLaunched
	case Destroyed:
		return ErrAlreadyDestroyed
	}

	if err := h.ui.Run(screen.OnCreate); err != nil {
		return fmt.Errorf("failed to launch screen on %s: %w", h.ui.Name(), err)
	}

	h.screen = screen
	h.transition(Created)

	return nil
}

// Destroy runs the screen's OnDestroy on the UI loop and waits for it to return.
func (h *Host) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.State() {
	case Initialized:
		return ErrNotLaunched
	case Destroyed:
		return ErrAlreadyDestroyed
	}

	if err := h.ui.Run(h.screen.OnDestroy); err != nil {
		return fmt.Errorf("failed to destroy screen on %s: %w", h.ui.Name(), err)
	}

	h.transition(Destroyed)

	return nil
}

func (h *Host) transition(state State) {
	h.logger.Info(activity, fmt.Sprintf("screen %s", state))
	h.lifecycle.Update(state)
}
