package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/logging"
	"github.com/osor/tray-weather/internal/weather"
)

const hourlyRows = 12

// Source loads the full forecast for a location.
type Source interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
}

// Options configure Build.
type Options struct {
	// LogFile is tailed when LogLines is not zero; a negative LogLines
	// includes the whole file.
	LogFile  string
	LogLines int
	Now      func() time.Time
}

// Report is everything the terminal report shows.
type Report struct {
	Location weather.Location
	Forecast *weather.Forecast
	// Err is set when the forecast could not be loaded; the report still
	// renders the log section.
	Err         error
	Logs        []string
	GeneratedAt time.Time
}

// Build fetches the forecast and the log tail. Only a missing location is
// an error; fetch and log failures are carried in the report.
func Build(ctx context.Context, src Source, loc weather.Location, opts Options) (Report, error) {
	if loc.IsZero() {
		return Report{}, errors.New("no location configured; run setup first")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	r := Report{Location: loc}
	r.Forecast, r.Err = src.Forecast(ctx, loc)
	r.GeneratedAt = now()

	if opts.LogLines != 0 && opts.LogFile != "" {
		lines, err := logging.Tail(opts.LogFile, opts.LogLines)
		if err != nil {
			r.Logs = []string{fmt.Sprintf("log unavailable: %v", err)}
		} else {
			r.Logs = lines
		}
	}
	return r, nil
}

// Render draws the report as terminal text.
func (r Report) Render() string {
	st := nightfox.styles()
	var b strings.Builder

	b.WriteString(st.Title.Render(r.Location.HumanReadable()))
	b.WriteString("  ")
	b.WriteString(st.Muted.Render(fmt.Sprintf("%.2f, %.2f", r.Location.Latitude, r.Location.Longitude)))
	b.WriteString("\n")

	if r.Err != nil {
		b.WriteString(st.Danger.Render(weather.Message(r.Err)))
		b.WriteString("\n")
	} else if r.Forecast != nil {
		if cur := r.Forecast.Current; cur != nil {
			b.WriteString(st.Box.Render(renderCurrent(st, cur)))
			b.WriteString("\n")
		}
		if hours := r.Forecast.HoursFrom(r.localNow(), hourlyRows); len(hours) > 0 {
			b.WriteString(st.Box.Render(renderHours(st, hours)))
			b.WriteString("\n")
		}
		if len(r.Forecast.Daily) > 0 {
			b.WriteString(st.Box.Render(renderDays(st, r.Forecast.Daily)))
			b.WriteString("\n")
		}
	}

	if len(r.Logs) > 0 {
		b.WriteString(st.Heading.Render("Recent log"))
		b.WriteString("\n")
		for _, line := range r.Logs {
			b.WriteString(renderLogLine(st, line))
			b.WriteString("\n")
		}
	}

	if !r.GeneratedAt.IsZero() {
		b.WriteString(st.Muted.Render("Generated " + r.GeneratedAt.Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	return b.String()
}

func (r Report) localNow() time.Time {
	now := r.GeneratedAt
	if now.IsZero() {
		now = time.Now()
	}
	if r.Forecast != nil && r.Forecast.Location != nil {
		now = now.In(r.Forecast.Location)
	}
	return now
}

func renderCurrent(st styles, c *weather.CurrentConditions) string {
	lines := []string{
		st.Heading.Render("Now"),
		st.Temp.Render(fmt.Sprintf("%.1f°C", c.Temperature)) + "  " + st.Text.Render(weather.Description(c.WeatherCode)),
		st.Muted.Render(fmt.Sprintf("Wind %.0f km/h  Precipitation %.1f mm", c.WindSpeed, c.Precipitation)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHours(st styles, hours []weather.HourlyPoint) string {
	lines := []string{st.Heading.Render("Next hours")}
	for _, h := range hours {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			st.Muted.Render(h.Time.Format("15:04")),
			st.Temp.Render(fmt.Sprintf("%5.1f°C", h.Temperature)),
			st.Text.Render(fmt.Sprintf("%-28s", weather.Description(h.WeatherCode))),
			st.Muted.Render(fmt.Sprintf("%.1f mm", h.Precipitation)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDays(st styles, days []weather.DailyPoint) string {
	lines := []string{st.Heading.Render("Next days")}
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			st.Muted.Render(d.Date.Format("Mon 02")),
			st.Temp.Render(fmt.Sprintf("%3.0f° / %3.0f°", d.TemperatureMax, d.TemperatureMin)),
			st.Text.Render(fmt.Sprintf("%-28s", weather.Description(d.WeatherCode))),
			st.Muted.Render(fmt.Sprintf("%.1f mm", d.PrecipitationSum)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderLogLine formats JSON lines from the file logger; anything else is
// printed as-is.
func renderLogLine(st styles, line string) string {
	entry, ok := logging.ParseEntry(line)
	if !ok {
		return st.Muted.Render(line)
	}
	level := strings.ToUpper(entry.Level.String())
	if entry.Level == zerolog.NoLevel {
		level = "???"
	}
	if len(level) > 3 {
		level = level[:3]
	}

	parts := make([]string, 0, 5)
	if !entry.Time.IsZero() {
		parts = append(parts, st.Muted.Render(entry.Time.Local().Format("15:04:05")))
	}
	parts = append(parts, st.level(entry.Level).Render(level))
	if entry.Component != "" {
		parts = append(parts, st.Heading.Render(entry.Component))
	}
	parts = append(parts, st.Text.Render(entry.Message))
	if entry.Error != "" {
		parts = append(parts, st.Danger.Render("error="+entry.Error))
	}
	return strings.Join(parts, " ")
}
