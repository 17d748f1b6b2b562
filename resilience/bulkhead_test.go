package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// hold occupies one slot until release is closed.
func hold(t *testing.T, b *Bulkhead) (release chan struct{}, done chan struct{}) {
	t.Helper()
	started := make(chan struct{})
	release = make(chan struct{})
	done = make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	return release, done
}

func TestBulkhead_NeverExceedsLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3, MaxWait: WaitForever})

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("expected at most 3 concurrent calls, saw %d", peak)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 0})
	release, done := hold(t, b)

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}

	close(release)
	<-done
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	release, done := hold(t, b)

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}

	close(release)
	<-done
}

func TestBulkhead_WaitForeverQueuesUntilSlotFrees(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: WaitForever})
	release, done := hold(t, b)

	result := make(chan error, 1)
	go func() {
		result <- b.Execute(context.Background(), func() error { return nil })
	}()

	deadline := time.After(time.Second)
	for b.Waiting() != 1 {
		select {
		case <-deadline:
			t.Fatal("caller never queued")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(release)
	<-done
	if err := <-result; err != nil {
		t.Errorf("expected queued caller to succeed, got %v", err)
	}
	if b.Waiting() != 0 {
		t.Errorf("expected no waiters, got %d", b.Waiting())
	}
}

func TestBulkhead_WaitForeverRespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: WaitForever})
	release, done := hold(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}

	close(release)
	<-done
}

func TestBulkhead_CancelledContextNeverRuns(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := b.Execute(ctx, func() error { ran = true; return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Error("fn must not run with a cancelled context")
	}
}

func TestBulkhead_ExclusiveSerialises(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 4, MaxWait: WaitForever, Exclusive: true})

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&current, 1)
				if n > atomic.LoadInt32(&peak) {
					atomic.StoreInt32(&peak, n)
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if peak != 1 {
		t.Errorf("expected serialised execution, saw %d concurrent", peak)
	}
}

func TestBulkhead_Callbacks(t *testing.T) {
	var acquired, released, rejected int32

	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		MaxWait:       0,
		OnAcquire:     func(string, time.Duration) { atomic.AddInt32(&acquired, 1) },
		OnRelease:     func(string) { atomic.AddInt32(&released, 1) },
		OnReject:      func(string, error) { atomic.AddInt32(&rejected, 1) },
	})

	release, done := hold(t, b)
	_ = b.Execute(context.Background(), func() error { return nil })
	close(release)
	<-done

	if acquired != 1 {
		t.Errorf("expected 1 acquire callback, got %d", acquired)
	}
	if released != 1 {
		t.Errorf("expected 1 release callback, got %d", released)
	}
	if rejected != 1 {
		t.Errorf("expected 1 reject callback, got %d", rejected)
	}
}

func TestBulkhead_AvailableAndInUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})

	if b.Available() != 3 || b.InUse() != 0 {
		t.Fatalf("unexpected initial state: available=%d inUse=%d", b.Available(), b.InUse())
	}

	release, done := hold(t, b)
	if b.Available() != 2 || b.InUse() != 1 {
		t.Errorf("expected 2 available / 1 in use, got %d / %d", b.Available(), b.InUse())
	}

	close(release)
	<-done
	if b.Available() != 3 {
		t.Errorf("expected 3 available after release, got %d", b.Available())
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test"))

	result, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
}
