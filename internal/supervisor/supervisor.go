package supervisor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWarnAfter is how long Shutdown waits before logging the tasks that
// are still running.
const DefaultWarnAfter = 5 * time.Second

// ErrStopped is returned by Spawn once Shutdown has begun.
var ErrStopped = errors.New("supervisor stopped")

// Task is a unit of background work. It must return once ctx is cancelled.
type Task func(ctx context.Context) error

// Supervisor owns a set of background tasks that share one cancellation
// signal. No task outlives Shutdown.
type Supervisor struct {
	ctx       context.Context
	cancel    context.CancelFunc
	log       zerolog.Logger
	warnAfter time.Duration

	mu      sync.Mutex
	stopped bool
	running map[uint64]string
	nextID  uint64
	wg      sync.WaitGroup

	shutdownOnce sync.Once
}

// Option adjusts a Supervisor.
type Option func(*Supervisor)

// WithWarnAfter overrides DefaultWarnAfter.
func WithWarnAfter(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.warnAfter = d
		}
	}
}

// New returns a Supervisor whose tasks are cancelled when parent is done or
// Shutdown is called.
func New(parent context.Context, log zerolog.Logger, opts ...Option) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	s := &Supervisor{
		ctx:       ctx,
		cancel:    cancel,
		log:       log.With().Str("component", "supervisor").Logger(),
		warnAfter: DefaultWarnAfter,
		running:   make(map[uint64]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context is the cancellation signal shared by every task.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// Spawn starts task on its own goroutine. A returned error other than
// context cancellation is logged.
func (s *Supervisor) Spawn(name string, task Task) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	id := s.nextID
	s.nextID++
	s.running[id] = name
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.running, id)
			s.mu.Unlock()
		}()

		s.log.Debug().Str("task", name).Msg("task started")
		err := task(s.ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			s.log.Debug().Str("task", name).Msg("task finished")
		default:
			s.log.Error().Err(err).Str("task", name).Msg("task failed")
		}
	}()
	return nil
}

// Running returns the number of tasks that have not yet returned.
func (s *Supervisor) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// Shutdown cancels every task and waits for all of them. It is safe to call
// more than once; later calls wait for the first to complete.
func (s *Supervisor) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		warn := time.NewTimer(s.warnAfter)
		defer warn.Stop()
		for {
			select {
			case <-done:
				s.log.Debug().Msg("all tasks stopped")
				return
			case <-warn.C:
				s.log.Warn().Strs("tasks", s.pending()).Dur("waited", s.warnAfter).Msg("tasks still running after cancel")
				warn.Reset(s.warnAfter)
			}
		}
	})
}

func (s *Supervisor) pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.running))
	for _, name := range s.running {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
