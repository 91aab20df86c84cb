package testutils

import (
	"sync"
)

// ConcurrencySync synchronises a specified number of concurrently running processes at a checkpoint.
// Processes arriving at the checkpoint block until concurrencyLimit of them have arrived, at which point
// they are all released together.
type ConcurrencySync struct {
	mu   sync.Mutex
	cond *sync.Cond

	limit      int
	waiting    int
	generation int
	hits       int
	releases   int
}

func NewConcurrencySync(concurrencyLimit int) *ConcurrencySync {
	if concurrencyLimit < 1 {
		panic("concurrency limit must be greater than 0")
	}

	s := &ConcurrencySync{limit: concurrencyLimit}
	s.cond = sync.NewCond(&s.mu)

	return s
}

// Checkpoint blocks the calling process until a requisite number of processes have reached the checkpoint.
func (s *ConcurrencySync) Checkpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits++
	s.waiting++

	if s.waiting == s.limit {
		s.waiting = 0
		s.generation++
		s.releases++
		s.cond.Broadcast()
		return
	}

	generation := s.generation
	for generation == s.generation {
		s.cond.Wait()
	}
}

// ReleaseCount returns the number of times the checkpoint has been released.
func (s *ConcurrencySync) ReleaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

// HitCount returns the number of times the checkpoint has been hit.
func (s *ConcurrencySync) HitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}
