package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// SingleFlight collapses concurrent calls for the same key into one execution.
// Callers that join an in-flight call receive its value and error.
//
// The shared call runs on a context detached from the first caller's
// cancellation, so a caller that goes away never fails the others. Each caller
// stops waiting as soon as its own context is done.
type SingleFlight struct {
	// Timeout bounds a shared call. Zero leaves it unbounded.
	Timeout time.Duration

	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	done chan struct{}
	val  any
	err  error
	dups int
}

func (g *SingleFlight) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	c, joined := g.calls[key]
	if joined {
		c.dups++
	} else {
		c = &call{done: make(chan struct{})}
		g.calls[key] = c
		go g.run(ctx, key, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err(), joined
	}

	if joined {
		return c.val, c.err, true
	}
	g.mu.Lock()
	shared := c.dups > 0
	g.mu.Unlock()
	return c.val, c.err, shared
}

func (g *SingleFlight) run(ctx context.Context, key string, c *call, fn func(ctx context.Context) (any, error)) {
	runCtx := context.WithoutCancel(ctx)
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, g.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			c.val = nil
			c.err = errors.Newf("singleflight %q: recovered panic: %v", key, r)
		}

		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn(runCtx)
}
