package window

import (
	"context"
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/weather"
)

type fakeForecastSource struct {
	forecast *weather.Forecast
	err      error
	calls    int
}

func (f *fakeForecastSource) Forecast(context.Context, weather.Location) (*weather.Forecast, error) {
	f.calls++
	return f.forecast, f.err
}

func sampleForecast(start time.Time, hours, days int) *weather.Forecast {
	f := &weather.Forecast{
		Location: time.UTC,
		Current:  &weather.CurrentConditions{Time: start, Temperature: 8.5, WeatherCode: 61, WindSpeed: 12},
	}
	for i := range hours {
		f.Hourly = append(f.Hourly, weather.HourlyPoint{Time: start.Add(time.Duration(i) * time.Hour), Temperature: float64(i), WeatherCode: 3})
	}
	for i := range days {
		f.Daily = append(f.Daily, weather.DailyPoint{Date: start.AddDate(0, 0, i), WeatherCode: 0, TemperatureMax: 10, TemperatureMin: 2})
	}
	return f
}

func newTestView(t *testing.T, source ForecastSource, now time.Time) *ForecastView {
	t.Helper()
	test.NewApp()
	s, _ := settings.New(paris, icons.ThemeMetno, false, 15)
	v := newForecastView(context.Background(), s, source, icons.NewRenderer(16))
	v.async = func(fn func()) { fn() }
	v.now = func() time.Time { return now }
	return v
}

func TestForecastViewShowsNextHoursAndDays(t *testing.T) {
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	source := &fakeForecastSource{forecast: sampleForecast(start, 72, 7)}
	now := start.Add(10*time.Hour + 25*time.Minute)
	v := newTestView(t, source, now)

	v.Load()

	if source.calls != 1 {
		t.Fatalf("Forecast calls = %d, want 1", source.calls)
	}
	if got := len(v.hourly.Objects); got != hourlyCards {
		t.Fatalf("hourly cards = %d, want %d", got, hourlyCards)
	}
	if got := len(v.daily.Objects); got != 7 {
		t.Fatalf("daily cards = %d, want 7", got)
	}
	if got := len(v.current.Objects); got != 2 {
		t.Fatalf("current objects = %d, want icon and details", got)
	}
	if v.status.Text != "Updated 10:25" {
		t.Fatalf("status = %q", v.status.Text)
	}
}

func TestForecastViewShortSeries(t *testing.T) {
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	source := &fakeForecastSource{forecast: sampleForecast(start, 5, 0)}
	v := newTestView(t, source, start.Add(2*time.Hour))

	v.Load()
	if got := len(v.hourly.Objects); got != 3 {
		t.Fatalf("hourly cards = %d, want the 3 remaining hours", got)
	}
	if got := len(v.daily.Objects); got != 0 {
		t.Fatalf("daily cards = %d, want 0", got)
	}
}

func TestForecastViewError(t *testing.T) {
	source := &fakeForecastSource{err: &weather.Error{Kind: weather.KindTransport, Err: errors.New("timeout")}}
	v := newTestView(t, source, time.Now())

	v.Load()
	if v.status.Text != "Weather update failed: service unreachable" {
		t.Fatalf("status = %q", v.status.Text)
	}
	if len(v.hourly.Objects) != 0 {
		t.Fatal("hourly cards shown after error")
	}
}
