// Package state records the outcome of the tray's weather refreshes.
//
// # Overview
//
// The controller writes to the Store after every refresh; the retry delay
// and the tray's status logging read from it. Writes and reads may come
// from different goroutines, so the Store guards its Snapshot with a
// readers-writer lock.
//
// # Update Semantics
//
//	// Success: replace the weather, clear the error
//	store.Update(&current, nil)
//	→ snapshot.Weather = current
//	→ snapshot.LastError = nil
//	→ snapshot.LastSuccess = now
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the old weather, count the failure
//	store.Update(nil, err)
//	→ snapshot.Weather = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// LastUpdated moves on every call. IsOffline reports two or more failures in
// a row.
//
// # Copying
//
// Update and Snapshot copy the pointer fields of CurrentWeather and wrap the
// stored error, so a caller holding a Snapshot never sees later writes.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
