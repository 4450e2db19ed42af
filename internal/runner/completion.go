package runner

import (
	"sync"

	"sheets_bridge/internal/config"
)

// Context is where outcomes are delivered. Post must run fn exactly once.
type Context interface {
	Post(fn func())
}

type inline struct{}

func (inline) Post(fn func()) { fn() }

// Inline delivers outcomes on the worker that produced them
var Inline Context = inline{}

// Loop is a single-goroutine completion context. Callbacks posted to it run
// one at a time in post order, the way a UI thread serializes events.
// Post never blocks, so a callback may post to its own loop.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewLoop starts a loop whose queue is preallocated for capacity callbacks
func NewLoop(capacity int) *Loop {
	if capacity < 1 {
		capacity = config.DefaultLoopCapacity
	}
	l := &Loop{
		pending: make([]func(), 0, capacity),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)

	var spare []func()
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = spare
		closed := l.closed
		l.mu.Unlock()

		for i, fn := range batch {
			fn()
			batch[i] = nil
		}
		spare = batch[:0]

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-l.wake
	}
}

// Post queues fn on the loop. After Close, fn runs on the caller instead so
// that no outcome is ever dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		fn()
		return
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Close runs every queued callback and stops the loop
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

// Func adapts a plain function to Context, e.g. a host's own dispatcher
type Func func(fn func())

// Post calls f
func (f Func) Post(fn func()) { f(fn) }
