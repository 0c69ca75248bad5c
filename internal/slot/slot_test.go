package slot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	s := New()
	if s.Held() {
		t.Fatal("new slot should be free")
	}
	if !s.TryAcquire(context.Background(), 0) {
		t.Fatal("expected acquire on free slot")
	}
	if !s.Held() {
		t.Error("slot should be held")
	}
	if s.TryAcquire(context.Background(), 0) {
		t.Error("second acquire should fail")
	}
	if !s.Release() {
		t.Error("release of held slot should report true")
	}
	if s.Release() {
		t.Error("release of free slot should report false")
	}
}

func TestAcquireTimeout(t *testing.T) {
	s := New()
	s.TryAcquire(context.Background(), 0)
	start := time.Now()
	err := s.Acquire(context.Background(), 100*time.Millisecond)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Acquire = %v, want ErrBusy", err)
	}
	if time.Since(start) < 100*time.Millisecond {
		t.Error("returned before timeout")
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	s := New()
	s.TryAcquire(context.Background(), 0)
	go func() {
		time.Sleep(50 * time.Millisecond)
		s.Release()
	}()
	if err := s.Acquire(context.Background(), time.Second); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
}

func TestAcquireContextCancelled(t *testing.T) {
	s := New()
	s.TryAcquire(context.Background(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Acquire(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire = %v, want context.Canceled", err)
	}
}

func TestMutualExclusion(t *testing.T) {
	s := New()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !s.TryAcquire(context.Background(), 2*time.Second) {
				return
			}
			defer s.Release()
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()
	if maxInside.Load() != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxInside.Load())
	}
}
