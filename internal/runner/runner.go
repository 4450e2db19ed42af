// Package runner executes units of work off the caller's goroutine and
// delivers each terminal outcome exactly once on a completion context.
//
// Work submitted to a Runner is drained by a fixed pool of workers. There is
// no ordering guarantee between submissions, no cancellation and no timeout;
// callers that need ordering wait on one Handle before submitting the next.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"

	"github.com/rs/zerolog/log"
)

// Runner is a fixed-size worker pool
type Runner struct {
	queue   chan func()
	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
	pending sync.WaitGroup
}

// New starts a runner sized by cfg
func New(cfg config.RunnerConfig) *Runner {
	cfg = cfg.Normalize()

	r := &Runner{
		queue: make(chan func(), cfg.QueueCapacity),
	}

	r.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go func() {
			defer r.workers.Done()
			for job := range r.queue {
				job()
			}
		}()
	}

	log.Debug().
		Int("workers", cfg.Workers).
		Int("queue_capacity", cfg.QueueCapacity).
		Msg("Started operation runner")

	return r
}

// enqueue never blocks the caller: when the queue is full the job is handed
// to a goroutine that waits for room.
func (r *Runner) enqueue(job func()) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false
	}

	select {
	case r.queue <- job:
		return true
	default:
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		r.queue <- job
	}()
	return true
}

// Close stops accepting work, finishes everything already submitted and
// waits for the workers to exit.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.pending.Wait()
	close(r.queue)
	r.workers.Wait()
}

// Submit schedules work and returns immediately. The outcome is posted to
// completion, where done (if non-nil) runs before the handle resolves.
func Submit[T any](r *Runner, name string, completion Context, work func(ctx context.Context) (T, error), done func(Outcome[T])) *Handle[T] {
	if completion == nil {
		completion = Inline
	}
	h := newHandle[T]()

	job := func() {
		deliver(completion, h, execute(name, work), done)
	}

	if !r.enqueue(job) {
		err := app.NewError(app.KindInternal, "runner is closed")
		err.Op = name
		deliver(completion, h, Failure[T](err), done)
	}
	return h
}

func execute[T any](name string, work func(ctx context.Context) (T, error)) (o Outcome[T]) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Str("operation", name).
				Interface("panic", p).
				Msg("Operation panicked")
			err := app.NewError(app.KindInternal, "%s", fmt.Sprint(p))
			err.Op = name
			o = Failure[T](err)
		}
	}()

	v, err := work(context.Background())

	log.Debug().
		Str("operation", name).
		Dur("elapsed", time.Since(start)).
		Bool("ok", err == nil).
		Msg("Operation finished")

	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

func deliver[T any](completion Context, h *Handle[T], o Outcome[T], done func(Outcome[T])) {
	completion.Post(func() {
		defer h.resolve(o)
		if done == nil {
			return
		}
		defer func() {
			if p := recover(); p != nil {
				log.Error().Interface("panic", p).Msg("Completion callback panicked")
			}
		}()
		done(o)
	})
}
