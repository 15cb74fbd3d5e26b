package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Dispatcher hands tasks to something that will run them. Enqueue returns
// false when the task could not be accepted.
type Dispatcher interface {
	Enqueue(t *Task) bool
}

type job struct {
	task    *Task
	resolve bool
	queued  time.Time
}

// Pool runs tasks on a fixed set of worker goroutines. Dispatched tasks are
// never cancelled; Shutdown only stops workers from taking new jobs.
type Pool struct {
	jobQueue chan job
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPool starts a pool with the given number of workers and queue size.
func NewPool(workers int, queueSize int) *Pool {
	workers = max(workers, 1)
	queueSize = max(queueSize, 1)

	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{
		jobQueue: make(chan job, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	logs.WithTag("workers", workers).
		WithTag("queue_size", queueSize).
		Debug("task pool started")
	return pool
}

// Enqueue queues t to be invoked on a worker. It never blocks: it returns
// false when the queue is full or the pool is shut down.
func (p *Pool) Enqueue(t *Task) bool {
	return p.submit(job{task: t, queued: time.Now()}, modeInvoke, false)
}

// EnqueueAndResolve queues t to be invoked and then resolved on the same
// worker. Like Enqueue, it never blocks.
func (p *Pool) EnqueueAndResolve(t *Task) bool {
	return p.submit(job{task: t, resolve: true, queued: time.Now()}, modeResolve, false)
}

// EnqueueBlocking queues t, waiting for room in the queue. It returns false
// once the pool is shut down.
func (p *Pool) EnqueueBlocking(t *Task) bool {
	return p.submit(job{task: t, queued: time.Now()}, modeInvoke, true)
}

func (p *Pool) submit(j job, mode string, block bool) bool {
	if p.ctx.Err() != nil {
		return false
	}

	if !block {
		select {
		case p.jobQueue <- j:
			instrumentEnqueue(mode, len(p.jobQueue))
			return true
		default:
			return false
		}
	}

	select {
	case p.jobQueue <- j:
		instrumentEnqueue(mode, len(p.jobQueue))
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case j := <-p.jobQueue:
			p.run(id, j)

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(worker int, j job) {
	defer func() {
		if r := recover(); r != nil {
			logs.Fatal(errors.New("task panicked").
				WithTag("task_id", j.task.ID.String()).
				WithTag("worker", worker).
				Wrap(fmt.Errorf("%v", r)))
		}
	}()

	start := time.Now()
	if j.resolve {
		j.task.InvokeAndResolve()
	} else {
		j.task.Invoke()
	}
	instrumentTaskDone(j.queued, start, len(p.jobQueue))
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// QueueLength returns the number of tasks waiting for a worker.
func (p *Pool) QueueLength() int {
	return len(p.jobQueue)
}

// Shutdown stops the workers and waits for the running tasks to finish.
// Tasks still in the queue are dropped.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	logs.WithTag("workers", p.workers).Debug("task pool stopped")
}

// Inline runs every task synchronously on the caller's goroutine.
type Inline struct {
	// Resolve also runs the task callback after the action.
	Resolve bool
}

// Enqueue runs t immediately.
func (in Inline) Enqueue(t *Task) bool {
	if in.Resolve {
		t.InvokeAndResolve()
	} else {
		t.Invoke()
	}
	return true
}
