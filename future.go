package motion

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Future reports that an asynchronous operation (a timeline run, a page
// transition, a state diff) has settled. It never fails: settled means "the
// operation is over", not "the operation succeeded".
//
// OnSettle callbacks run synchronously on the goroutine that settles the
// future, which is always the goroutine driving Engine.Tick. Done may be
// waited on from any goroutine.
type Future struct {
	once      sync.Once
	done      chan struct{}
	callbacks []func()
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns an already settled future.
func Resolved() *Future {
	f := newFuture()
	f.resolve()
	return f
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// OnSettle runs fn when the future settles, or immediately if it already has.
func (f *Future) OnSettle(fn func()) {
	if fn == nil {
		return
	}
	if f.Settled() {
		fn()
		return
	}
	f.callbacks = append(f.callbacks, fn)
}

func (f *Future) resolve() {
	f.once.Do(func() {
		close(f.done)
		cbs := f.callbacks
		f.callbacks = nil
		for _, fn := range cbs {
			fn()
		}
	})
}

// All returns a future that settles after every input future has settled.
func All(futures ...*Future) *Future {
	out := newFuture()
	pending := len(futures)
	if pending == 0 {
		out.resolve()
		return out
	}
	for _, f := range futures {
		f.OnSettle(func() {
			pending--
			if pending == 0 {
				out.resolve()
			}
		})
	}
	return out
}

// WaitAll blocks until every future settles or ctx is done. It is meant for
// hosts that run the tick loop on another goroutine.
func WaitAll(ctx context.Context, futures ...*Future) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range futures {
		g.Go(func() error {
			select {
			case <-f.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}
