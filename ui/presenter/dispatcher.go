package presenter

import (
	"context"
	"time"
)

// Completion is built by background work and applied on the UI thread.
type Completion func()

// Dispatcher runs blocking calls off the UI thread and hands their results
// back through a channel drained on each loop tick, so presenters and models
// are only ever touched from the UI thread.
type Dispatcher struct {
	spawn   func(func())
	results chan Completion
	timeout time.Duration
}

const defaultRequestTimeout = 15 * time.Second

// NewDispatcher returns a Dispatcher whose work gets a context bounded by
// timeout (15s when non-positive).
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Dispatcher{
		spawn:   func(f func()) { go f() },
		results: make(chan Completion, 64),
		timeout: timeout,
	}
}

// Go runs work in the background. The returned Completion, if any, is queued
// for the next Drain.
func (d *Dispatcher) Go(work func(ctx context.Context) Completion) {
	if d == nil || work == nil {
		return
	}
	d.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if c := work(ctx); c != nil {
			d.results <- c
		}
	})
}

// Drain applies every completion that is ready without blocking and returns
// how many ran.
func (d *Dispatcher) Drain() int {
	if d == nil {
		return 0
	}
	n := 0
	for {
		select {
		case c := <-d.results:
			c()
			n++
		default:
			return n
		}
	}
}
