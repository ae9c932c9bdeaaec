// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package requester

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// drainAll drains until n callbacks ran or the test times out.
func drainAll(t *testing.T, r *Requester, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for ran := 0; ran < n; {
		if err := r.Wait(ctx); err != nil {
			t.Fatalf("expected %d callbacks got %d: %v", n, ran, err)
		}
		ran += r.Drain()
	}
}

func TestRequest_Order(t *testing.T) {
	r := New(1)
	defer r.Close()

	const n = 50
	var results []int
	for i := 0; i < n; i++ {
		i := i
		Request(r, func() (int, error) {
			return i * i, nil
		}, func(v int, err error) {
			if err != nil {
				t.Error(err)
			}
			results = append(results, v)
		})
	}

	drainAll(t, r, n)

	if len(results) != n {
		t.Fatalf("expected %d results got %d", n, len(results))
	}
	for i, v := range results {
		if v != i*i {
			t.Errorf("expected result %d to be %d got %d", i, i*i, v)
		}
	}
}

func TestRequest_CallbacksOnlyInDrain(t *testing.T) {
	r := New(2)
	defer r.Close()

	var calls int32
	Request(r, func() (string, error) {
		return "done", nil
	}, func(string, error) {
		atomic.AddInt32(&calls, 1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	if c := atomic.LoadInt32(&calls); c != 0 {
		t.Fatalf("expected no callback before Drain got %d", c)
	}
	if p := r.Pending(); p != 1 {
		t.Errorf("expected 1 pending got %d", p)
	}

	if n := r.Drain(); n != 1 {
		t.Errorf("expected 1 drained got %d", n)
	}
	if c := atomic.LoadInt32(&calls); c != 1 {
		t.Errorf("expected 1 callback got %d", c)
	}
	if p := r.Pending(); p != 0 {
		t.Errorf("expected 0 pending got %d", p)
	}
}

func TestRequest_Errors(t *testing.T) {
	r := New(2)
	defer r.Close()

	sentinel := errors.New("generation failed")
	var gotErr, gotPanic error

	Request(r, func() (int, error) {
		return 0, sentinel
	}, func(_ int, err error) {
		gotErr = err
	})
	Request(r, func() (*int, error) {
		panic("boom")
	}, func(v *int, err error) {
		if v != nil {
			t.Error("expected zero result after panic")
		}
		gotPanic = err
	})

	drainAll(t, r, 2)

	if !errors.Is(gotErr, sentinel) {
		t.Errorf("expected %v got %v", sentinel, gotErr)
	}
	var panicErr *PanicError
	if !errors.As(gotPanic, &panicErr) {
		t.Fatalf("expected *PanicError got %v", gotPanic)
	}
	if len(panicErr.Stack) == 0 {
		t.Error("expected stack trace")
	}
}

func TestRequester_Bounded(t *testing.T) {
	const workers = 3
	r := New(workers)
	defer r.Close()

	var running, peak int32
	const n = 30
	for i := 0; i < n; i++ {
		Request(r, func() (struct{}, error) {
			c := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if c <= p || atomic.CompareAndSwapInt32(&peak, p, c) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&running, -1)
			return struct{}{}, nil
		}, func(struct{}, error) {})
	}

	drainAll(t, r, n)

	if p := atomic.LoadInt32(&peak); p > workers {
		t.Errorf("expected at most %d concurrent computations got %d", workers, p)
	}
}

func TestRequester_Close(t *testing.T) {
	r := New(1)

	var finished int32
	for i := 0; i < 5; i++ {
		Request(r, func() (int, error) {
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&finished, 1)
			return 0, nil
		}, func(int, error) {})
	}
	r.Close()

	if f := atomic.LoadInt32(&finished); f != 5 {
		t.Errorf("expected queued computations to finish, got %d", f)
	}

	var err error
	Request(r, func() (int, error) {
		return 0, nil
	}, func(_ int, e error) {
		err = e
	})

	if n := r.Drain(); n != 6 {
		t.Errorf("expected 6 callbacks got %d", n)
	}
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v got %v", ErrClosed, err)
	}
}

func TestRequester_DrainPanic(t *testing.T) {
	r := New(1)

	ran := 0
	Request(r, func() (int, error) {
		return 0, nil
	}, func(int, error) {
		panic("callback failed")
	})
	for i := 0; i < 2; i++ {
		Request(r, func() (int, error) {
			return 0, nil
		}, func(int, error) {
			ran++
		})
	}
	// Every computation has finished once Close returns
	r.Close()

	func() {
		defer func() {
			if p := recover(); p == nil {
				t.Error("expected callback panic to propagate")
			}
		}()
		r.Drain()
	}()

	if ran != 0 {
		t.Errorf("expected later callbacks to wait for the next drain, %d ran", ran)
	}
	if p := r.Pending(); p != 2 {
		t.Errorf("expected 2 pending got %d", p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Wait(ctx); err != nil {
		t.Fatalf("expected requeued callbacks to be ready: %v", err)
	}
	if n := r.Drain(); n != 2 {
		t.Errorf("expected 2 callbacks got %d", n)
	}
	if ran != 2 {
		t.Errorf("expected 2 callbacks to run got %d", ran)
	}
	if p := r.Pending(); p != 0 {
		t.Errorf("expected nothing pending got %d", p)
	}
}
