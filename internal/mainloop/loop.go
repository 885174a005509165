// Package mainloop provides the single sequential context all bridge state is
// touched from, plus helpers that marshal background work back onto it.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
)

// ErrClosed is returned once the loop has terminated.
var ErrClosed = errors.New("main loop closed")

// Loop runs posted functions one at a time, in FIFO order, on the goroutine
// that called Run.
type Loop struct {
	el      *eventloop.Loop
	pending atomic.Int64
	dropped atomic.Int64
}

// New creates a loop. Nothing runs until Run is called.
func New() (*Loop, error) {
	el, err := eventloop.New()
	if err != nil {
		return nil, fmt.Errorf("create event loop: %w", err)
	}
	return &Loop{el: el}, nil
}

// Start creates a loop and runs it on a new goroutine until ctx is done or
// Close is called.
func Start(ctx context.Context) (*Loop, error) {
	l, err := New()
	if err != nil {
		return nil, err
	}
	go func() { _ = l.Run(ctx) }()
	return l, nil
}

// Run processes posted functions until ctx is done or Close is called. It
// returns ctx.Err() when ctx ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	err := l.el.Run(ctx)
	if errors.Is(err, eventloop.ErrLoopTerminated) {
		return nil
	}
	return err
}

// Post schedules fn. Safe from any goroutine; dropped once the loop closed.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.pending.Add(1)
	err := l.el.Submit(func() {
		l.pending.Add(-1)
		fn()
	})
	if err != nil {
		l.pending.Add(-1)
		l.dropped.Add(1)
	}
}

// PostAfter schedules fn to run once delay has passed.
func (l *Loop) PostAfter(delay time.Duration, fn func()) error {
	if fn == nil {
		return nil
	}
	if _, err := l.el.ScheduleTimer(delay, fn); err != nil {
		if errors.Is(err, eventloop.ErrLoopTerminated) {
			return ErrClosed
		}
		return fmt.Errorf("schedule timer: %w", err)
	}
	return nil
}

// Drain blocks until every function posted so far, and every function those
// post in turn, has run. The loop must be running on another goroutine;
// calling Drain from a posted function deadlocks.
func (l *Loop) Drain(ctx context.Context) error {
	for {
		done := make(chan struct{})
		if err := l.el.Submit(func() { close(done) }); err != nil {
			return ErrClosed
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if l.pending.Load() == 0 {
			return nil
		}
	}
}

// Do runs fn on the loop and drains. It must not be called from the loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	l.Post(fn)
	return l.Drain(ctx)
}

// Pending returns the number of posted functions that have not started.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Dropped returns the number of posts refused because the loop had closed.
func (l *Loop) Dropped() int {
	return int(l.dropped.Load())
}

// Close finishes queued work and stops the loop. Later posts are dropped.
func (l *Loop) Close(ctx context.Context) error {
	err := l.el.Shutdown(ctx)
	if err == nil || errors.Is(err, eventloop.ErrLoopTerminated) {
		return nil
	}
	return err
}

// Immediate runs posted functions synchronously on the caller's goroutine.
type Immediate struct{}

// Post runs fn now.
func (Immediate) Post(fn func()) {
	if fn != nil {
		fn()
	}
}
