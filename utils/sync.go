package utils

import (
	"sync"
	"time"
)

// WaitFor waits for the WaitGroup to be done or a timeout elapses
func WaitFor(wg *sync.WaitGroup, timeout time.Duration) bool {
	c := make(chan struct{})
	go func() {
		wg.Wait()
		close(c)
	}()
	return WaitForSignal(c, timeout)
}

// WaitForSignal waits for the channel to be closed or a timeout elapses
func WaitForSignal(done <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
