package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueRunsEnqueuedTasks(t *testing.T) {
	q := NewQueue(2)
	q.Start()

	var mu sync.Mutex
	ran := 0
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		q.Enqueue("count", func(ctx context.Context) error {
			mu.Lock()
			ran++
			if ran == 5 {
				close(done)
			}
			mu.Unlock()
			return nil
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("tasks did not run in time")
	}
	q.Stop()
}

func TestQueueStopDrainsPendingTasks(t *testing.T) {
	q := NewQueue(1)
	q.Start()

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		q.Enqueue("drain", func(ctx context.Context) error {
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		})
	}

	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	if ran != 10 {
		t.Fatalf("expected 10 tasks to run before stop returned, got %d", ran)
	}
}

func TestQueueTaskFailureDoesNotStopWorkers(t *testing.T) {
	q := NewQueue(1)
	q.Start()
	defer q.Stop()

	done := make(chan struct{})
	q.Enqueue("fail", func(ctx context.Context) error {
		return errors.New("boom")
	})
	q.Enqueue("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker stopped after failing task")
	}
}
