package app

import (
	"context"
	"sync/atomic"
	"time"
)

// Ticker emits a Timer message every interval. The interval can be changed
// while it runs; Reset restarts the countdown with the new value.
type Ticker struct {
	out      chan<- Message
	interval atomic.Int64
	reset    chan time.Duration
}

// NewTicker returns a Ticker that sends to out.
func NewTicker(out chan<- Message, interval time.Duration) *Ticker {
	t := &Ticker{out: out, reset: make(chan time.Duration, 1)}
	t.interval.Store(int64(interval))
	return t
}

// Interval returns the current period.
func (t *Ticker) Interval() time.Duration {
	return time.Duration(t.interval.Load())
}

// Reset replaces the period and restarts the countdown. It never blocks; if
// several resets arrive before the ticker wakes, the latest one wins.
func (t *Ticker) Reset(d time.Duration) {
	if d <= 0 {
		return
	}
	t.interval.Store(int64(d))
	for {
		select {
		case t.reset <- d:
			return
		default:
		}
		// Drop the stale value and try again.
		select {
		case <-t.reset:
		default:
		}
	}
}

// Run sends Timer messages until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	timer := time.NewTimer(t.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-t.reset:
			timer.Reset(d)
		case <-timer.C:
			select {
			case t.out <- TimerMessage():
			case <-ctx.Done():
				return ctx.Err()
			}
			timer.Reset(t.Interval())
		}
	}
}
