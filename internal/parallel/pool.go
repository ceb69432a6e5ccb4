// Package parallel runs independent render jobs on a fixed set of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by ExecuteAll after Close.
var ErrClosed = errors.New("parallel: worker pool closed")

// WorkerPool is a pool of goroutines, each owning a private state value of
// type S.
//
// The state is typically a renderer with its own caches. It is created once
// per worker and handed to every job that worker runs, so caches survive
// between batches and are never shared between goroutines.
//
// Workers pull from their own queue first and steal from other queues when it
// is empty. A stolen job runs with the thief's state.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool[S any] struct {
	// workQueues holds per-worker work queues.
	workQueues []chan func(S)

	// states holds one state value per worker.
	states []S

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// mu is held for reading while a batch is queued, so Close cannot stop
	// the workers halfway through a batch.
	mu sync.RWMutex

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers, calling
// newState once per worker. If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool[S any](workers int, newState func() S) *WorkerPool[S] {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool[S]{
		workQueues: make([]chan func(S), workers),
		states:     make([]S, workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(S), queueSize)
		p.states[i] = newState()
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool[S]) worker(id int) {
	defer p.wg.Done()

	state := p.states[id]
	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue, state)
			return

		case work := <-myQueue:
			work(state)

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen(state)
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(myQueue, state)
				return
			case work := <-myQueue:
				work(state)
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool[S]) drainQueue(queue chan func(S), state S) {
	for {
		select {
		case work := <-queue:
			work(state)
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool[S]) steal(myID int) func(S) {
	for i := range p.workQueues {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for all of it to
// complete. On a closed pool it runs nothing and returns ErrClosed; a batch
// accepted before Close always runs to completion.
func (p *WorkerPool[S]) ExecuteAll(work []func(S)) error {
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return ErrClosed
	}

	var completion sync.WaitGroup
	completion.Add(len(work))

	for i, fn := range work {
		p.workQueues[i%len(p.workQueues)] <- func(s S) {
			defer completion.Done()
			fn(s)
		}
	}
	p.mu.RUnlock()

	// Workers drain their queues before exiting, so queued work completes
	// even if Close runs now.
	completion.Wait()
	return nil
}

// Close stops accepting work, waits for queued work to finish and stops all
// workers. Close is safe to call multiple times.
func (p *WorkerPool[S]) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool[S]) Workers() int {
	return len(p.workQueues)
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool[S]) IsRunning() bool {
	return p.running.Load()
}

// Each calls fn with every worker's state. It must not run concurrently with
// ExecuteAll.
func (p *WorkerPool[S]) Each(fn func(S)) {
	for _, s := range p.states {
		fn(s)
	}
}
