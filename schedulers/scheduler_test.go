package schedulers_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ducka/go-kayak-animals/schedulers"
	"github.com/ducka/go-kayak-animals/testutils"
	"github.com/ducka/go-kayak-animals/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type closableScheduler interface {
	schedulers.Scheduler
	Close()
}

// SchedulerTestSuite asserts the behaviour every closable scheduler shares.
type SchedulerTestSuite struct {
	suite.Suite
	factory func() closableScheduler
	sut     closableScheduler
}

func NewSchedulerTestSuite(factory func() closableScheduler) *SchedulerTestSuite {
	return &SchedulerTestSuite{factory: factory}
}

func (s *SchedulerTestSuite) SetupTest() {
	s.sut = s.factory()
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.sut.Close()
}

func (s *SchedulerTestSuite) TestScheduleRunsEveryTask() {
	taskCount := 50
	wg := &sync.WaitGroup{}
	wg.Add(taskCount)
	var ran atomic.Int32

	for i := 0; i < taskCount; i++ {
		s.NoError(s.sut.Schedule(func() {
			defer wg.Done()
			ran.Add(1)
		}))
	}

	s.True(utils.WaitFor(wg, time.Second))
	s.Equal(int32(taskCount), ran.Load())
}

func (s *SchedulerTestSuite) TestScheduleAfterCloseFails() {
	s.sut.Close()

	err := s.sut.Schedule(func() {})

	s.ErrorIs(err, schedulers.ErrClosed)
}

func (s *SchedulerTestSuite) TestCloseWaitsForQueuedTasks() {
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		s.NoError(s.sut.Schedule(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}

	s.sut.Close()

	s.Equal(int32(10), ran.Load())
}

func (s *SchedulerTestSuite) TestPanickingTaskDoesNotStopTheScheduler() {
	done := make(chan struct{})

	s.NoError(s.sut.Schedule(func() { panic("boom") }))
	s.NoError(s.sut.Schedule(func() { close(done) }))

	s.True(utils.WaitForSignal(done, time.Second))
}

func TestWorkerPoolSuite(t *testing.T) {
	suite.Run(t, NewSchedulerTestSuite(func() closableScheduler {
		return schedulers.NewWorkerPool("test", 3)
	}))
}

func TestLoopSuite(t *testing.T) {
	suite.Run(t, NewSchedulerTestSuite(func() closableScheduler {
		return schedulers.NewLoop("test")
	}))
}

func TestWorkerPool(t *testing.T) {
	t.Run("When a pool of 4 goroutines is given 4 tasks that wait on each other", func(t *testing.T) {
		poolSize := 4
		sut := schedulers.NewWorkerPool("io", poolSize)
		defer sut.Close()

		checkpoint := testutils.NewConcurrencySync(poolSize)
		wg := &sync.WaitGroup{}
		wg.Add(poolSize)

		for i := 0; i < poolSize; i++ {
			assert.NoError(t, sut.Schedule(func() {
				defer wg.Done()
				checkpoint.Checkpoint()
			}))
		}

		t.Run("Then the pool should run all of them concurrently", func(t *testing.T) {
			assert.True(t, utils.WaitFor(wg, time.Second))
			assert.Equal(t, 1, checkpoint.ReleaseCount())
		})
	})

	t.Run("When a pool is created with a size below 1", func(t *testing.T) {
		sut := schedulers.NewWorkerPool("io", 0)
		defer sut.Close()

		t.Run("Then the pool should have a single worker", func(t *testing.T) {
			assert.Equal(t, 1, sut.Size())
		})
	})

	t.Run("When the only worker is busy and many more tasks are scheduled", func(t *testing.T) {
		sut := schedulers.NewWorkerPool("io", 1)
		defer sut.Close()

		gate := make(chan struct{})
		require.NoError(t, sut.Schedule(func() { <-gate }))

		taskCount := 10000
		wg := &sync.WaitGroup{}
		wg.Add(taskCount)
		scheduled := make(chan struct{})

		go func() {
			defer close(scheduled)
			for i := 0; i < taskCount; i++ {
				_ = sut.Schedule(wg.Done)
			}
		}()

		t.Run("Then scheduling should not wait for the worker", func(t *testing.T) {
			assert.True(t, utils.WaitForSignal(scheduled, time.Second))
		})

		close(gate)

		t.Run("Then every queued task should run once the worker is free", func(t *testing.T) {
			assert.True(t, utils.WaitFor(wg, 5*time.Second))
		})
	})

	t.Run("When using the named constructors", func(t *testing.T) {
		io := schedulers.IO()
		defer io.Close()
		computation := schedulers.Computation()
		defer computation.Close()

		t.Run("Then the pools should be named after their purpose", func(t *testing.T) {
			assert.Equal(t, "io", io.Name())
			assert.Equal(t, schedulers.DefaultIOPoolSize, io.Size())
			assert.Equal(t, "computation", computation.Name())
		})
	})
}

func TestLoop(t *testing.T) {
	t.Run("When 100 tasks are scheduled on a loop", func(t *testing.T) {
		sut := schedulers.NewLoop("ui")
		defer sut.Close()

		taskCount := 100
		order := make([]int, 0, taskCount)
		var active, maxActive atomic.Int32
		wg := &sync.WaitGroup{}
		wg.Add(taskCount)

		for i := 0; i < taskCount; i++ {
			i := i
			assert.NoError(t, sut.Schedule(func() {
				defer wg.Done()
				if n := active.Add(1); n > maxActive.Load() {
					maxActive.Store(n)
				}
				order = append(order, i)
				active.Add(-1)
			}))
		}

		assert.True(t, utils.WaitFor(wg, time.Second))

		t.Run("Then the tasks should run in the order they were scheduled", func(t *testing.T) {
			for i, v := range order {
				assert.Equal(t, i, v)
			}
			assert.Len(t, order, taskCount)
		})

		t.Run("Then no two tasks should run at the same time", func(t *testing.T) {
			assert.Equal(t, int32(1), maxActive.Load())
		})
	})

	t.Run("When running a task on the loop", func(t *testing.T) {
		sut := schedulers.NewLoop("ui")
		defer sut.Close()

		ran := false
		err := sut.Run(func() { ran = true })

		t.Run("Then Run should return once the task has finished", func(t *testing.T) {
			assert.NoError(t, err)
			assert.True(t, ran)
		})
	})

	t.Run("When running a task on a closed loop", func(t *testing.T) {
		sut := schedulers.NewLoop("ui")
		sut.Close()

		err := sut.Run(func() {})

		t.Run("Then ErrClosed should be returned", func(t *testing.T) {
			assert.ErrorIs(t, err, schedulers.ErrClosed)
		})
	})

	t.Run("When a loop is closed twice", func(t *testing.T) {
		sut := schedulers.NewLoop("ui")
		sut.Close()

		t.Run("Then the second close should return immediately", func(t *testing.T) {
			assert.True(t, utils.WaitForSignal(closed(sut.Close), time.Second))
		})
	})
}

func TestImmediate(t *testing.T) {
	t.Run("When scheduling on the immediate scheduler", func(t *testing.T) {
		sut := schedulers.Immediate()
		ran := false

		err := sut.Schedule(func() { ran = true })

		t.Run("Then the task should have run before Schedule returned", func(t *testing.T) {
			assert.NoError(t, err)
			assert.True(t, ran)
			assert.Equal(t, "immediate", sut.Name())
		})
	})
}

func TestNewThread(t *testing.T) {
	t.Run("When scheduling on the new thread scheduler", func(t *testing.T) {
		sut := schedulers.NewThread()
		done := make(chan struct{})

		err := sut.Schedule(func() { close(done) })

		t.Run("Then the task should run asynchronously", func(t *testing.T) {
			assert.NoError(t, err)
			assert.True(t, utils.WaitForSignal(done, time.Second))
		})
	})
}

func closed(f func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	return done
}
