package instrumentation

import (
	"sync"
)

var (
	mu       sync.RWMutex
	measurer Measurer
	logger   Logger
)

func init() {
	SetMeasurer(&NilMeasurer{})
	SetLogger(&NilLogger{})
}

// SetMeasurer replaces the process wide measurer used by components that weren't given one explicitly.
func SetMeasurer(provider Measurer) {
	if provider == nil {
		panic("Metrics provider must be specified")
	}

	mu.Lock()
	defer mu.Unlock()
	measurer = provider
}

// SetLogger replaces the process wide logger used by components that weren't given one explicitly.
func SetLogger(provider Logger) {
	if provider == nil {
		panic("Logging provider must be specified")
	}

	mu.Lock()
	defer mu.Unlock()
	logger = provider
}

func Metrics() Measurer {
	mu.RLock()
	defer mu.RUnlock()
	return measurer
}

func Logging() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
