package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/osor/tray-weather/internal/weather"
)

type fakeSource struct {
	forecast *weather.Forecast
	err      error
	got      weather.Location
}

func (f *fakeSource) Forecast(_ context.Context, loc weather.Location) (*weather.Forecast, error) {
	f.got = loc
	return f.forecast, f.err
}

var oslo = weather.Location{ID: 3143244, Name: "Oslo", Country: "Norway", Latitude: 59.91, Longitude: 10.75}

func fixedNow() time.Time {
	return time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
}

func sample() *weather.Forecast {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	f := &weather.Forecast{
		Location: time.UTC,
		Current:  &weather.CurrentConditions{Time: start.Add(9 * time.Hour), Temperature: -3.4, WeatherCode: 71, WindSpeed: 18, Precipitation: 0.4},
	}
	for i := range 48 {
		f.Hourly = append(f.Hourly, weather.HourlyPoint{Time: start.Add(time.Duration(i) * time.Hour), Temperature: -2, WeatherCode: 3})
	}
	for i := range 7 {
		f.Daily = append(f.Daily, weather.DailyPoint{Date: start.AddDate(0, 0, i), WeatherCode: 0, TemperatureMax: 1, TemperatureMin: -6})
	}
	return f
}

func TestBuildAndRender(t *testing.T) {
	src := &fakeSource{forecast: sample()}
	r, err := Build(context.Background(), src, oslo, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if src.got.ID != oslo.ID {
		t.Fatalf("forecast requested for %+v, want Oslo", src.got)
	}

	out := r.Render()
	for _, want := range []string{
		"Oslo, Norway",
		"-3.4°C",
		"Slight snowfall",
		"Wind 18 km/h",
		"Next hours",
		"09:00",
		"20:00",
		"Next days",
		"Clear sky",
		"Generated 2026-01-05 09:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "08:00") || strings.Contains(out, "21:00") {
		t.Errorf("report shows hours outside the next %d:\n%s", hourlyRows, out)
	}
	if strings.Contains(out, "Recent log") {
		t.Errorf("log section rendered without log lines")
	}
}

func TestRenderForecastError(t *testing.T) {
	src := &fakeSource{err: &weather.Error{Kind: weather.KindTransport, Err: errors.New("dial tcp: refused")}}
	r, err := Build(context.Background(), src, oslo, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := r.Render()
	if !strings.Contains(out, "Weather update failed: service unreachable") {
		t.Fatalf("report missing error message:\n%s", out)
	}
	if strings.Contains(out, "Next days") {
		t.Fatalf("forecast sections rendered after error:\n%s", out)
	}
}

func TestBuildRequiresLocation(t *testing.T) {
	if _, err := Build(context.Background(), &fakeSource{}, weather.Location{}, Options{}); err == nil {
		t.Fatal("expected error without location")
	}
}

func TestRenderLogTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weathertray.log")
	content := strings.Join([]string{
		`{"level":"info","component":"controller","time":"2026-01-05T09:00:00Z","message":"weather updated"}`,
		`{"level":"error","component":"controller","kind":"transport","error":"timeout","time":"2026-01-05T09:15:00Z","message":"weather update failed"}`,
		`plain text from a crash`,
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	r, err := Build(context.Background(), &fakeSource{forecast: sample()}, oslo, Options{LogFile: path, LogLines: 2, Now: fixedNow})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.Logs) != 2 {
		t.Fatalf("log lines = %d, want 2", len(r.Logs))
	}

	out := r.Render()
	for _, want := range []string{"Recent log", "ERR", "controller", "weather update failed", "error=timeout", "plain text from a crash"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "weather updated") {
		t.Errorf("report shows lines beyond the tail:\n%s", out)
	}
}

func TestBuildWholeLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weathertray.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	r, err := Build(context.Background(), &fakeSource{forecast: sample()}, oslo, Options{LogFile: path, LogLines: -1, Now: fixedNow})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.Logs) != 3 || r.Logs[0] != "one" {
		t.Fatalf("logs = %q, want the whole file", r.Logs)
	}

	r, err = Build(context.Background(), &fakeSource{forecast: sample()}, oslo, Options{LogFile: path, Now: fixedNow})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Logs != nil {
		t.Fatalf("logs = %q, want none when not asked for", r.Logs)
	}
}
