package schedulers

import (
	"runtime"
	"sync"
)

const DefaultIOPoolSize = 4

// WorkerPool runs tasks concurrently on a fixed number of goroutines. Task order is not preserved.
// The queue is unbounded, so Schedule never blocks.
type WorkerPool struct {
	name string
	size int

	mu    sync.Mutex
	ready *sync.Cond
	queue []func()
	// closed is a flag that indicates the pool no longer accepts tasks
	closed bool
	wg     sync.WaitGroup
}

// IO is the pool blocking work is dispatched onto.
func IO(size ...int) *WorkerPool {
	poolSize := DefaultIOPoolSize
	if len(size) > 0 {
		poolSize = size[0]
	}
	return NewWorkerPool("io", poolSize)
}

// Computation sizes the pool to the number of CPU cores on the host machine.
func Computation() *WorkerPool {
	return NewWorkerPool("computation", runtime.NumCPU())
}

func NewWorkerPool(name string, size int) *WorkerPool {
	if size < 1 {
		size = 1
	}

	p := &WorkerPool{
		name: name,
		size: size,
	}
	p.ready = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}

	return p
}

func (p *WorkerPool) Schedule(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.queue = append(p.queue, task)
	p.ready.Signal()
	return nil
}

func (p *WorkerPool) Name() string {
	return p.name
}

func (p *WorkerPool) Size() int {
	return p.size
}

// Close stops accepting tasks and waits for the queued ones to finish. It must not be called from
// a task running on the pool.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.ready.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *WorkerPool) work() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.ready.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}

		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		execute(p.name, task)
	}
}
