// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package requester runs expensive computations on a bounded pool of worker
// goroutines and hands their results back to a single controlling goroutine.
package requester

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var ErrClosed = errors.New("requester closed")

// PanicError is delivered to a callback when its computation panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (err *PanicError) Error() string {
	return fmt.Sprintf("computation panicked: %v", err.Value)
}

// job runs a computation and returns the callback that delivers its result.
type job func() (complete func())

// Requester is an async compute queue.
// Request may be called from any goroutine, but callbacks only run inside
// Drain, on the goroutine calling it.
type Requester struct {
	mu        sync.Mutex
	cond      *sync.Cond
	jobs      []job
	completed []func()
	pending   int
	closed    bool

	ready chan struct{}
	wg    sync.WaitGroup
}

// New starts a Requester with workers goroutines, or one per CPU if
// workers <= 0.
func New(workers int) *Requester {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	r := &Requester{
		ready: make(chan struct{}, 1),
	}
	r.cond = sync.NewCond(&r.mu)

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.work()
	}
	return r
}

// Request queues generate to run on a worker. callback receives its result
// during a later Drain. Requests never block, and queued requests start in
// submission order.
func Request[T any](r *Requester, generate func() (T, error), callback func(T, error)) {
	r.enqueue(func() func() {
		result, err := safeGenerate(generate)
		return func() {
			callback(result, err)
		}
	}, func() {
		var zero T
		callback(zero, ErrClosed)
	})
}

func safeGenerate[T any](generate func() (T, error)) (result T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			result = zero
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return generate()
}

func (r *Requester) enqueue(j job, rejected func()) {
	r.mu.Lock()
	r.pending++
	if r.closed {
		r.completed = append(r.completed, rejected)
		r.mu.Unlock()
		r.notify()
		return
	}
	r.jobs = append(r.jobs, j)
	r.mu.Unlock()
	r.cond.Signal()
}

func (r *Requester) work() {
	defer r.wg.Done()

	for {
		r.mu.Lock()
		for len(r.jobs) == 0 && !r.closed {
			r.cond.Wait()
		}
		if len(r.jobs) == 0 {
			r.mu.Unlock()
			return
		}
		j := r.jobs[0]
		r.jobs[0] = nil
		r.jobs = r.jobs[1:]
		r.mu.Unlock()

		complete := j()

		r.mu.Lock()
		r.completed = append(r.completed, complete)
		r.mu.Unlock()
		r.notify()
	}
}

func (r *Requester) notify() {
	select {
	case r.ready <- struct{}{}:
	default:
	}
}

// Drain runs the callbacks of all finished computations, in completion order,
// and returns how many ran. It never blocks on running computations.
// Callbacks may submit new requests. If a callback panics, the panic
// propagates and the callbacks after it stay queued for the next Drain.
func (r *Requester) Drain() int {
	r.mu.Lock()
	completed := r.completed
	r.completed = nil
	r.mu.Unlock()

	ran := 0
	defer func() {
		r.mu.Lock()
		r.pending -= ran
		requeued := ran < len(completed)
		if requeued {
			r.completed = append(completed[ran:], r.completed...)
		}
		r.mu.Unlock()
		if requeued {
			r.notify()
		}
	}()

	for ran < len(completed) {
		complete := completed[ran]
		completed[ran] = nil
		ran++
		complete()
	}
	return ran
}

// Wait blocks until at least one result is ready to Drain or ctx is done.
func (r *Requester) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		n := len(r.completed)
		r.mu.Unlock()
		if n > 0 {
			return nil
		}

		select {
		case <-r.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending is the number of requests whose callbacks haven't run yet.
func (r *Requester) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Close stops accepting computations and waits for queued ones to finish.
// Their results, and rejections of later requests, can still be drained.
func (r *Requester) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.cond.Broadcast()
	r.wg.Wait()
}
