// Package supervisor runs cancellable background tasks under one shared
// context and guarantees that none of them outlive Shutdown.
//
// The tray spawns its timer, one feeder per native event source and one
// waiter per forecast window process through a single Supervisor:
//
//	sup := supervisor.New(ctx, logger)
//	_ = sup.Spawn("ticker", ticker.Run)
//	...
//	sup.Shutdown() // cancel, then wait for every task
//
// Shutdown is idempotent. Once it has started, Spawn returns ErrStopped
// instead of starting work that nobody would wait for. If tasks are slow to
// notice cancellation, the names of the stragglers are logged periodically
// while Shutdown keeps waiting.
package supervisor
