// Package settings holds the user's tray configuration and persists it as
// TOML under the platform config directory
// (<UserConfigDir>/TrayWeather/settings.toml).
//
// A Settings value is valid when it names a location, a positive update
// interval and a known icon theme. New refuses to build anything else.
// Default is the seed for the first-run dialog and is intentionally not
// valid until a location is picked.
//
// Store.Load distinguishes three failures, all of which send the tray into
// its first-run flow:
//
//   - the file is missing (errors.Is(err, ErrNotFound))
//   - the file is not valid TOML
//   - the file decodes but does not validate (errors.Is(err, ErrInvalid))
package settings
