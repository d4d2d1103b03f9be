// Package weather provides an HTTP client for the Open-Meteo forecast and
// geocoding APIs.
//
// # Overview
//
// The tray polls CurrentWeather on an interval, the forecast window and the
// report command call Forecast, and the settings form and setup command call
// SearchLocation. All three share one request path and one error type.
//
//   - client.go: Client, Endpoints and the shared request handling
//   - types.go: Location, CurrentWeather, Forecast and the wire structs
//   - codes.go: WMO weather code descriptions and met.no icon names
//   - errors.go: Error, ErrorKind and the tray display message
//
// # Client Usage
//
//	client, err := weather.NewClient(weather.Endpoints{})
//	if err != nil {
//		return err
//	}
//
//	current, err := client.CurrentWeather(ctx, settings.Location)
//	if err != nil {
//		tray.SetError(weather.Message(err))
//	}
//
// # Error Handling
//
// Every failed call returns a *Error with one of three kinds:
//
//   - KindTransport: connection refused, timeouts, HTTP errors without an
//     error document
//   - KindMalformed: undecodable JSON, a missing current_weather block
//     (wrapping ErrNoCurrentWeather), forecast series whose lengths differ
//     from their timestamp series
//   - KindRemote: the service answered with {"error": true, "reason": ...},
//     checked before the HTTP status and before any data block
//
// Message maps all three to one line of text for the tray tooltip, while
// KindOf keeps them apart in logs.
//
// # Forecast Series
//
// The forecast API returns parallel arrays. Forecast zips them into
// HourlyPoint and DailyPoint values and refuses payloads whose arrays do not
// line up, so callers never index past the shorter series.
//
// # Testing Considerations
//
// Endpoints lets tests point the client at an httptest.Server. The Fetcher
// interface is what consumers should depend on.
package weather
