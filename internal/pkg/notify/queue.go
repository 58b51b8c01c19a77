package notify

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	defaultWorkers  = 3
	defaultCapacity = 256
	taskTimeout     = 30 * time.Second
)

// TaskRunner runs side-effect tasks decoupled from the request path.
// Enqueued work is best effort: failures are logged and never reach the
// caller that produced them.
type TaskRunner interface {
	Enqueue(name string, task func(context.Context) error)
}

// Queue is an in-process TaskRunner with a fixed worker pool. Requests hand
// off analytics and outbound-webhook dispatch here so the HTTP response never
// waits on downstream collaborators.
type Queue struct {
	tasks   chan queuedTask
	workers int
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

type queuedTask struct {
	name string
	run  func(context.Context) error
}

// NewQueue creates a queue with the given number of workers.
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Queue{
		tasks:   make(chan queuedTask, defaultCapacity),
		workers: workers,
		stopCh:  make(chan struct{}),
	}
}

// Start starts the queue workers.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	q.running = true
	log.Infof("[Notify] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop drains outstanding tasks and stops the workers.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}
	log.Info("[Notify] Stopping workers...")
	close(q.stopCh)
	q.running = false
	q.wg.Wait()
	log.Info("[Notify] All workers stopped")
}

// Enqueue schedules a task. When the queue is saturated the task is dropped
// and logged; downstream notification has no delivery guarantee here.
func (q *Queue) Enqueue(name string, task func(context.Context) error) {
	select {
	case q.tasks <- queuedTask{name: name, run: task}:
	default:
		log.Errorf("[Notify] queue full, dropping task %s", name)
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case t := <-q.tasks:
					q.runTask(t)
				default:
					return
				}
			}
		case t := <-q.tasks:
			q.runTask(t)
		}
	}
}

func (q *Queue) runTask(t queuedTask) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := t.run(ctx); err != nil {
		log.Errorf("[Notify] task %s failed: %v", t.name, err)
	}
}

var (
	defaultQueue *Queue
	defaultOnce  sync.Once
)

// Default returns the process-wide queue, starting it on first use.
func Default() *Queue {
	defaultOnce.Do(func() {
		defaultQueue = NewQueue(defaultWorkers)
		defaultQueue.Start()
	})
	return defaultQueue
}
