package store

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInMemoryLocker_MutualExclusionPerExperiment(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	const workers = 10
	var held bool
	var violations int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Acquire(ctx, 1)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer unlock()

			mu.Lock()
			if held {
				violations++
			}
			held = true
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			held = false
			mu.Unlock()
		}()
	}
	wg.Wait()

	if violations != 0 {
		t.Fatalf("critical section entered concurrently %d times", violations)
	}
}

func TestInMemoryLocker_IndependentExperiments(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	unlock1, err := locker.Acquire(ctx, 1)
	if err != nil {
		t.Fatalf("acquire experiment 1: %v", err)
	}
	defer unlock1()

	// Holding experiment 1 must not block experiment 2.
	done := make(chan struct{})
	go func() {
		unlock2, err := locker.Acquire(ctx, 2)
		if err != nil {
			t.Errorf("acquire experiment 2: %v", err)
			return
		}
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("experiment 2 lock blocked by experiment 1 holder")
	}
}

func TestInMemoryLocker_AcquireHonorsContext(t *testing.T) {
	locker := NewInMemoryLocker()

	unlock, err := locker.Acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Acquire(ctx, 1); err == nil {
		t.Fatal("second acquire should fail once ctx expires")
	}
}

func TestInMemoryLocker_UnlockIsIdempotent(t *testing.T) {
	locker := NewInMemoryLocker()

	unlock, err := locker.Acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	unlock()
	unlock() // second call must be a no-op, not a double release

	again, err := locker.Acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	again()
}
