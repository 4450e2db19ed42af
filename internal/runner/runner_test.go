package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSubmitSuccess(t *testing.T) {
	r := New(config.RunnerConfig{Workers: 2, QueueCapacity: 4})
	defer r.Close()

	var callbacks int32
	h := Submit(r, "Double", Inline, func(ctx context.Context) (int, error) {
		return 21 * 2, nil
	}, func(o Outcome[int]) {
		atomic.AddInt32(&callbacks, 1)
		if !o.OK() || o.Value != 42 {
			t.Errorf("Expected success 42, got %+v", o)
		}
	})

	v, err := h.Wait(waitCtx(t))
	if err != nil || v != 42 {
		t.Fatalf("Expected 42, got %d (%v)", v, err)
	}

	// the handle resolves only after the callback has run
	if atomic.LoadInt32(&callbacks) != 1 {
		t.Errorf("Expected exactly 1 callback, got %d", callbacks)
	}

	o, ok := h.Outcome()
	if !ok || o.Value != 42 {
		t.Errorf("Expected resolved outcome, got %+v (%v)", o, ok)
	}
}

func TestSubmitFailure(t *testing.T) {
	r := New(config.DefaultRunnerConfig)
	defer r.Close()

	boom := app.NewError(app.KindRemoteFailure, "quota exceeded")
	h := Submit(r, "Fail", Inline, func(ctx context.Context) (string, error) {
		return "", boom
	}, nil)

	_, err := h.Wait(waitCtx(t))
	if !errors.Is(err, app.ErrRemoteFailure) {
		t.Errorf("Expected remote failure, got %v", err)
	}
}

func TestSubmitRecoversPanic(t *testing.T) {
	r := New(config.RunnerConfig{Workers: 1, QueueCapacity: 1})
	defer r.Close()

	h := Submit(r, "Explode", Inline, func(ctx context.Context) (int, error) {
		panic("index out of range")
	}, nil)

	_, err := h.Wait(waitCtx(t))
	if !errors.Is(err, app.ErrInternal) {
		t.Fatalf("Expected internal error, got %v", err)
	}

	var appErr *app.Error
	if !errors.As(err, &appErr) || appErr.Op != "Explode" {
		t.Errorf("Expected error tagged with operation name, got %v", err)
	}

	// the worker survived the panic
	h2 := Submit(r, "After", Inline, func(ctx context.Context) (int, error) { return 1, nil }, nil)
	if v, err := h2.Wait(waitCtx(t)); err != nil || v != 1 {
		t.Errorf("Expected worker to keep running, got %d (%v)", v, err)
	}
}

func TestCallbackPanicStillResolvesHandle(t *testing.T) {
	r := New(config.DefaultRunnerConfig)
	defer r.Close()

	h := Submit(r, "Callback", Inline, func(ctx context.Context) (int, error) {
		return 7, nil
	}, func(Outcome[int]) {
		panic("host bug")
	})

	if v, err := h.Wait(waitCtx(t)); err != nil || v != 7 {
		t.Errorf("Expected 7, got %d (%v)", v, err)
	}
}

func TestSubmitDoesNotBlockWhenQueueFull(t *testing.T) {
	r := New(config.RunnerConfig{Workers: 1, QueueCapacity: 1})
	defer r.Close()

	release := make(chan struct{})
	blocker := func(ctx context.Context) (int, error) {
		<-release
		return 0, nil
	}

	submitted := make(chan struct{})
	var handles []*Handle[int]
	go func() {
		for i := 0; i < 10; i++ {
			handles = append(handles, Submit(r, "Block", Inline, blocker, nil))
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the queue was full")
	}

	close(release)
	for _, h := range handles {
		if _, err := h.Wait(waitCtx(t)); err != nil {
			t.Errorf("Expected success, got %v", err)
		}
	}
}

func TestSubmitAfterClose(t *testing.T) {
	r := New(config.DefaultRunnerConfig)
	r.Close()
	r.Close() // idempotent

	var ran bool
	h := Submit(r, "Late", Inline, func(ctx context.Context) (int, error) {
		ran = true
		return 0, nil
	}, nil)

	_, err := h.Wait(waitCtx(t))
	if !errors.Is(err, app.ErrInternal) {
		t.Errorf("Expected internal error after close, got %v", err)
	}
	if ran {
		t.Error("Expected work not to run after close")
	}
}

func TestCloseDrainsSubmittedWork(t *testing.T) {
	r := New(config.RunnerConfig{Workers: 2, QueueCapacity: 2})

	var completed int32
	for i := 0; i < 20; i++ {
		Submit(r, "Count", Inline, func(ctx context.Context) (int, error) {
			time.Sleep(time.Millisecond)
			return 0, nil
		}, func(Outcome[int]) {
			atomic.AddInt32(&completed, 1)
		})
	}

	r.Close()

	if atomic.LoadInt32(&completed) != 20 {
		t.Errorf("Expected 20 completions after Close, got %d", completed)
	}
}

func TestLoopDeliversOnSingleGoroutine(t *testing.T) {
	r := New(config.RunnerConfig{Workers: 8, QueueCapacity: 8})
	defer r.Close()
	loop := NewLoop(4)
	defer loop.Close()

	var (
		mu         sync.Mutex
		inCallback bool
		overlaps   int
		deliveries = make(map[int]int)
	)

	const n = 100
	handles := make([]*Handle[int], n)
	for i := 0; i < n; i++ {
		i := i
		handles[i] = Submit(r, "Loop", loop, func(ctx context.Context) (int, error) {
			return i, nil
		}, func(o Outcome[int]) {
			mu.Lock()
			if inCallback {
				overlaps++
			}
			inCallback = true
			deliveries[o.Value]++
			mu.Unlock()

			time.Sleep(10 * time.Microsecond)

			mu.Lock()
			inCallback = false
			mu.Unlock()
		})
	}

	for _, h := range handles {
		if _, err := h.Wait(waitCtx(t)); err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if overlaps != 0 {
		t.Errorf("Expected callbacks to be serialized, saw %d overlaps", overlaps)
	}
	for i := 0; i < n; i++ {
		if deliveries[i] != 1 {
			t.Errorf("Expected exactly one delivery for %d, got %d", i, deliveries[i])
		}
	}
}

func TestLoopCallbackPostsToItsOwnLoop(t *testing.T) {
	loop := NewLoop(1)
	defer loop.Close()

	const n = 20
	var (
		mu    sync.Mutex
		order []int
	)
	done := make(chan struct{})

	loop.Post(func() {
		// more posts than the loop has room for, all from the loop goroutine
		for i := 0; i < n; i++ {
			i := i
			loop.Post(func() {
				mu.Lock()
				order = append(order, i)
				last := len(order) == n
				mu.Unlock()
				if last {
					close(done)
				}
			})
		}
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected nested posts to be delivered, loop is stuck")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected post order, got %v", order)
		}
	}
}

func TestLoopCloseRunsQueuedCallbacks(t *testing.T) {
	loop := NewLoop(2)

	var ran int32
	for i := 0; i < 50; i++ {
		loop.Post(func() { atomic.AddInt32(&ran, 1) })
	}
	loop.Close()

	if got := atomic.LoadInt32(&ran); got != 50 {
		t.Errorf("Expected 50 callbacks before Close returned, got %d", got)
	}
}

func TestLoopPostAfterClose(t *testing.T) {
	loop := NewLoop(1)
	loop.Close()

	ran := false
	loop.Post(func() { ran = true })
	if !ran {
		t.Error("Expected Post after Close to run the callback on the caller")
	}
}

func TestFuncContext(t *testing.T) {
	var posted int
	ctx := Func(func(fn func()) {
		posted++
		fn()
	})

	r := New(config.DefaultRunnerConfig)
	defer r.Close()

	h := Submit(r, "Func", ctx, func(context.Context) (string, error) { return "ok", nil }, nil)
	if v, err := h.Wait(waitCtx(t)); err != nil || v != "ok" {
		t.Fatalf("Expected ok, got %q (%v)", v, err)
	}
	if posted != 1 {
		t.Errorf("Expected 1 post, got %d", posted)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	r := New(config.DefaultRunnerConfig)
	defer r.Close()

	release := make(chan struct{})
	defer close(release)

	h := Submit(r, "Slow", Inline, func(ctx context.Context) (int, error) {
		<-release
		return 0, nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if _, ok := h.Outcome(); ok {
		t.Error("Expected outcome to be pending")
	}
}
