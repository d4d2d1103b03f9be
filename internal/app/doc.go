// Package app is the tray's composition root and its event-driven
// controller.
//
// # Components
//
//   - app.go: Run wires the weather client, settings store, tray, windows
//     and autorun, then hands the main goroutine to the tray
//   - controller.go: the single consumer of Messages; owns the settings
//   - ticker.go: the resettable refresh timer
//   - feeder.go: Forward, which turns tray callbacks into Messages
//   - message.go: the Message union
//
// # Data Flow
//
//	tray menu ──> Forward ──┐
//	tray click ─> Forward ──┼──> intake (FIFO) ──> Controller ──> tray icon
//	Ticker ─────────────────┘                         │
//	                                                  ├──> weather client
//	                                                  ├──> settings dialog (child process)
//	                                                  └──> forecast window (child process)
//
// Every producer writes to one buffered channel and the controller handles
// one message at a time, in arrival order. While the settings dialog is
// open nothing else is handled; ticks and clicks wait in the channel.
//
// # Refresh Timing
//
// After a successful refresh the ticker is reset to the configured
// interval. After a failure it is reset to a retry delay that starts at one
// minute and doubles per consecutive failure, capped at the interval.
//
// # Error Handling
//
// Fatal (returned from Run): no usable executable or config directory, the
// tray icon cannot be built, the first-run dialog was cancelled
// (ErrNoSettings).
//
// Recoverable (logged and shown on the tray): weather failures, settings
// that cannot be saved, window processes that fail to start.
package app
