package supervisor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestShutdownCancelsSleepingTask(t *testing.T) {
	sup := New(context.Background(), zerolog.Nop())

	started := make(chan struct{})
	var exited atomic.Bool
	err := sup.Spawn("sleeper", func(ctx context.Context) error {
		close(started)
		select {
		case <-ctx.Done():
		case <-time.After(time.Hour):
		}
		exited.Store(true)
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	<-started
	if got := sup.Running(); got != 1 {
		t.Fatalf("Running() = %d, want 1", got)
	}

	done := make(chan struct{})
	go func() {
		sup.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
	if !exited.Load() {
		t.Fatal("task had not exited when Shutdown returned")
	}
	if got := sup.Running(); got != 0 {
		t.Fatalf("Running() after Shutdown = %d, want 0", got)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	sup := New(context.Background(), zerolog.Nop())
	_ = sup.Spawn("noop", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sup.Shutdown()
		}()
	}
	wg.Wait()
	sup.Shutdown()
}

func TestSpawnAfterShutdown(t *testing.T) {
	sup := New(context.Background(), zerolog.Nop())
	sup.Shutdown()

	ran := false
	err := sup.Spawn("late", func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("Spawn err = %v, want ErrStopped", err)
	}
	if ran {
		t.Fatal("task ran after Shutdown")
	}
}

func TestParentCancellationReachesTasks(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sup := New(parent, zerolog.Nop())

	done := make(chan struct{})
	_ = sup.Spawn("watcher", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	})
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not observe parent cancellation")
	}
	sup.Shutdown()
}

func TestTaskErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := zerolog.New(&lockedWriter{mu: &mu, w: &buf})
	sup := New(context.Background(), logger)

	_ = sup.Spawn("broken", func(context.Context) error {
		return errors.New("boom")
	})
	sup.Shutdown()

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	if !strings.Contains(out, `"task":"broken"`) || !strings.Contains(out, "boom") {
		t.Fatalf("log = %s, want task failure entry", out)
	}
}

func TestShutdownWarnsAboutStragglers(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := zerolog.New(&lockedWriter{mu: &mu, w: &buf})
	sup := New(context.Background(), logger, WithWarnAfter(10*time.Millisecond))

	_ = sup.Spawn("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(60 * time.Millisecond)
		return nil
	})
	sup.Shutdown()

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	if !strings.Contains(out, "tasks still running") || !strings.Contains(out, "slow") {
		t.Fatalf("log = %s, want straggler warning", out)
	}
	if sup.Running() != 0 {
		t.Fatalf("Running() = %d, want 0", sup.Running())
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
