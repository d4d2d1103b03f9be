package app

import (
	"context"

	"github.com/osor/tray-weather/internal/supervisor"
)

// Forward returns a task that translates every value received from src into
// a Message on out. It stops when ctx is cancelled or src is closed.
func Forward[T any](src <-chan T, out chan<- Message, translate func(T) (Message, bool)) supervisor.Task {
	return func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-src:
				if !ok {
					return nil
				}
				msg, keep := translate(v)
				if !keep {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
