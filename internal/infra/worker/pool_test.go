//go:build !integration

package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPool_RunsSubmittedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(2, zerolog.Nop())
	p.Start(ctx)
	defer p.Stop()

	var mu sync.Mutex
	done := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		err := p.Submit(func(ctx context.Context) error {
			defer wg.Done()
			mu.Lock()
			done++
			mu.Unlock()
			return nil
		})
		if err != nil {
			wg.Done()
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if done != 8 {
		t.Errorf("want 8 tasks run, got %d", done)
	}
}

func TestPool_RejectsNilTask(t *testing.T) {
	p := NewPool(1, zerolog.Nop())
	if err := p.Submit(nil); err == nil {
		t.Error("want error for nil task")
	}
}

func TestPool_DropsWhenSaturated(t *testing.T) {
	// Pool never started, so the queue (cap workers*4) fills up.
	p := NewPool(1, zerolog.Nop())

	var err error
	for i := 0; i < 10; i++ {
		err = p.Submit(func(ctx context.Context) error { return nil })
		if err != nil {
			break
		}
	}
	if err == nil {
		t.Error("want queue-full error once saturated")
	}
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	ctx := context.Background()
	p := NewPool(1, zerolog.Nop())
	p.Start(ctx)

	started := make(chan struct{})
	if err := p.Submit(func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-started

	stopDone := make(chan struct{})
	go func() {
		p.Stop()
		close(stopDone)
	}()
	select {
	case <-stopDone:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
