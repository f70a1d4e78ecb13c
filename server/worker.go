package server

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/chazu/knight/knight"
)

// envRequest represents a unit of work to be executed on the Environment goroutine.
type envRequest struct {
	fn   func(*knight.Environment) interface{}
	done chan envResult
}

// envResult holds the return value from an Environment operation.
type envResult struct {
	value interface{}
	err   error
}

// errWorkerStopped is returned by Do once Stop has been called; a stopped
// worker's goroutine is gone, so there is nothing left to run fn on.
var errWorkerStopped = errors.New("knight: worker has been stopped")

// Worker serializes all Environment access through a single goroutine. A
// knight.Environment is a tree of manually refcounted, non-atomic Values —
// two goroutines running Knight code against the same Environment would
// race on every Increment/Decrement — so every HTTP and LSP handler reaches
// it only through this one goroutine rather than touching it directly.
type Worker struct {
	env      *knight.Environment
	requests chan envRequest
	quit     chan struct{}
	stopped  atomic.Bool
}

// NewWorker creates a Worker owning env and starts its processing goroutine.
// The Worker owns env for its entire lifetime; callers must not touch env
// after handing it to NewWorker.
func NewWorker(env *knight.Environment) *Worker {
	w := &Worker{
		env:      env,
		requests: make(chan envRequest, 64),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop processes requests sequentially on a dedicated goroutine.
func (w *Worker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn against the Environment, recovering from panics. The
// Knight core never panics on an ordinary evaluation failure — those are
// returned as *knight.Error (see knight.Run/knight.Play) — so a recovered
// panic here means fn violated one of the core's own invariants (e.g.
// calling Value.Int on a Value that isn't IsInteger). That is a bug in the
// closure passed to Do, not a Knight runtime error, so it is reported
// distinctly rather than folded into the same error a failed eval returns.
func (w *Worker) execute(fn func(*knight.Environment) interface{}) envResult {
	var result envResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.err = fmt.Errorf("knight: internal invariant violation: %v", r)
			}
		}()
		result.value = fn(w.env)
	}()
	return result
}

// Do submits fn for execution on the Environment goroutine and blocks until
// it completes. Returns errWorkerStopped if the worker was stopped before
// or while fn was queued, instead of blocking forever on a goroutine that
// has already exited.
func (w *Worker) Do(fn func(*knight.Environment) interface{}) (interface{}, error) {
	if w.stopped.Load() {
		return nil, errWorkerStopped
	}

	req := envRequest{fn: fn, done: make(chan envResult, 1)}
	select {
	case w.requests <- req:
	case <-w.quit:
		return nil, errWorkerStopped
	}

	select {
	case result := <-req.done:
		return result.value, result.err
	case <-w.quit:
		return nil, errWorkerStopped
	}
}

// Stop shuts down the worker goroutine. Do calls made after Stop returns
// errWorkerStopped instead of being accepted.
func (w *Worker) Stop() {
	w.stopped.Store(true)
	close(w.quit)
}
