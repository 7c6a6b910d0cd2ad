package resilience

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do(context.Background(), "leaderboard:top:10", func(context.Context) (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}

	v, err, shared := g.Do(context.Background(), "leaderboard:top:10", func(context.Context) (any, error) {
		return "fresh", nil
	})
	if err != nil || v != "fresh" || shared {
		t.Fatalf("expected key to be released after completion, got v=%v err=%v shared=%v", v, err, shared)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight

	_, err, shared := g.Do(context.Background(), "stats", func(context.Context) (any, error) {
		panic("boom")
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected recovered panic error, got %v", err)
	}
	if shared {
		t.Fatalf("single caller must not report a shared result")
	}

	v, err, _ := g.Do(context.Background(), "stats", func(context.Context) (any, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("expected key to be reusable after panic, got v=%v err=%v", v, err)
	}
}

func TestSingleFlight_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	var g SingleFlight

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		close(started)
		select {
		case <-release:
			return "standings", ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, errors.New("load never released")
		}
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do(firstCtx, "top", loader)
		firstErr <- err
	}()
	<-started

	type result struct {
		v      any
		err    error
		shared bool
	}
	second := make(chan result, 1)
	go func() {
		v, err, shared := g.Do(context.Background(), "top", func(context.Context) (any, error) {
			return nil, errors.New("second caller must join the running load")
		})
		second <- result{v: v, err: err, shared: shared}
	}()

	// Wait for the second caller to join before cancelling the first.
	for {
		g.mu.Lock()
		dups := g.calls["top"].dups
		g.mu.Unlock()
		if dups == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancelled caller to see context.Canceled, got %v", err)
	}

	close(release)
	got := <-second
	if got.err != nil || got.v != "standings" || !got.shared {
		t.Fatalf("expected live caller to receive the shared value, got %+v", got)
	}
}

func TestSingleFlight_TimeoutBoundsSharedCall(t *testing.T) {
	g := SingleFlight{Timeout: 10 * time.Millisecond}

	_, err, _ := g.Do(context.Background(), "stats", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
