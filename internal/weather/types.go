package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	hourLayout = "2006-01-02T15:04"
	dayLayout  = "2006-01-02"
)

// Location is a place returned by the geocoding API. The zero value, with
// ID 0, means "no location chosen".
type Location struct {
	ID          int64    `json:"id" toml:"id"`
	Name        string   `json:"name" toml:"name"`
	Latitude    float64  `json:"latitude" toml:"latitude"`
	Longitude   float64  `json:"longitude" toml:"longitude"`
	Elevation   float64  `json:"elevation" toml:"elevation"`
	FeatureCode string   `json:"feature_code" toml:"feature_code,omitempty"`
	CountryCode string   `json:"country_code" toml:"country_code,omitempty"`
	Admin1ID    int64    `json:"admin1_id" toml:"admin1_id,omitempty"`
	Admin2ID    int64    `json:"admin2_id" toml:"admin2_id,omitempty"`
	Admin3ID    int64    `json:"admin3_id" toml:"admin3_id,omitempty"`
	Admin4ID    int64    `json:"admin4_id" toml:"admin4_id,omitempty"`
	Timezone    string   `json:"timezone" toml:"timezone,omitempty"`
	Population  int64    `json:"population" toml:"population,omitempty"`
	Postcodes   []string `json:"postcodes" toml:"postcodes,omitempty"`
	CountryID   int64    `json:"country_id" toml:"country_id,omitempty"`
	Country     string   `json:"country" toml:"country,omitempty"`
	Admin1      string   `json:"admin1" toml:"admin1,omitempty"`
	Admin2      string   `json:"admin2" toml:"admin2,omitempty"`
	Admin3      string   `json:"admin3" toml:"admin3,omitempty"`
	Admin4      string   `json:"admin4" toml:"admin4,omitempty"`
}

// IsZero reports whether no location has been chosen.
func (l Location) IsZero() bool {
	return l.ID == 0
}

// Equal compares two locations, treating nil and empty postcode lists alike.
func (l Location) Equal(other Location) bool {
	if !slices.Equal(l.Postcodes, other.Postcodes) {
		return false
	}
	a, b := l, other
	a.Postcodes, b.Postcodes = nil, nil
	return reflect.DeepEqual(a, b)
}

// HumanReadable renders "Name, Region, Country", skipping empty parts.
func (l Location) HumanReadable() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{l.Name, l.Admin1, l.Country} {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(parts, part) {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// CurrentWeather mirrors the current_weather block of the forecast API.
type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         *int    `json:"is_day"`
	Time          string  `json:"time"`
}

// Description returns the English text for the weather code.
func (w CurrentWeather) Description() string {
	return Description(w.WeatherCode)
}

// IconName returns the met.no icon name for the conditions, using night
// variants when the service reports is_day = 0.
func (w CurrentWeather) IconName() string {
	return IconName(w.WeatherCode, w.IsDay == nil || *w.IsDay != 0)
}

// Forecast is the decoded, validated result of a full forecast request.
type Forecast struct {
	Location *time.Location
	Current  *CurrentConditions
	Hourly   []HourlyPoint
	Daily    []DailyPoint
}

// CurrentConditions mirrors the "current" block of a full forecast.
type CurrentConditions struct {
	Time          time.Time
	Temperature   float64
	Precipitation float64
	WeatherCode   int
	WindSpeed     float64
	IsDay         *int
}

// IconName returns the icon for the conditions; nil IsDay counts as day.
func (c CurrentConditions) IconName() string {
	return IconName(c.WeatherCode, c.IsDay == nil || *c.IsDay != 0)
}

// HourlyPoint is one hour of forecast data.
type HourlyPoint struct {
	Time          time.Time
	Temperature   float64
	Precipitation float64
	WeatherCode   int
	WindSpeed     float64
	IsDay         *int
}

// IconName returns the icon for the hour; nil IsDay counts as day.
func (h HourlyPoint) IconName() string {
	return IconName(h.WeatherCode, h.IsDay == nil || *h.IsDay != 0)
}

// DailyPoint is one day of forecast data.
type DailyPoint struct {
	Date             time.Time
	WeatherCode      int
	TemperatureMax   float64
	TemperatureMin   float64
	PrecipitationSum float64
	WindSpeedMax     float64
}

// HoursFrom returns up to n hourly points starting with the hour containing t.
func (f *Forecast) HoursFrom(t time.Time, n int) []HourlyPoint {
	if f == nil || n <= 0 {
		return nil
	}
	start := t.Truncate(time.Hour)
	for i, point := range f.Hourly {
		if !point.Time.Before(start) {
			end := min(i+n, len(f.Hourly))
			return f.Hourly[i:end]
		}
	}
	return nil
}

type currentResponse struct {
	CurrentWeather *CurrentWeather `json:"current_weather"`
}

type searchResponse struct {
	Results []Location `json:"results"`
}

type forecastResponse struct {
	Timezone string        `json:"timezone"`
	Current  *currentBlock `json:"current"`
	Hourly   *hourlySeries `json:"hourly"`
	Daily    *dailySeries  `json:"daily"`
}

type currentBlock struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature_2m"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	IsDay         *int    `json:"is_day"`
}

type hourlySeries struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Precipitation []float64 `json:"precipitation"`
	WeatherCode   []int     `json:"weather_code"`
	WindSpeed     []float64 `json:"wind_speed_10m"`
	IsDay         []int     `json:"is_day"`
}

type dailySeries struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	WindSpeedMax     []float64 `json:"wind_speed_10m_max"`
}

func (r forecastResponse) toForecast() (*Forecast, error) {
	loc := time.UTC
	if tz := strings.TrimSpace(r.Timezone); tz != "" {
		if resolved, err := time.LoadLocation(tz); err == nil {
			loc = resolved
		}
	}
	out := &Forecast{Location: loc}

	if r.Current != nil {
		t, err := time.ParseInLocation(hourLayout, r.Current.Time, loc)
		if err != nil {
			return nil, fmt.Errorf("current time %q: %w", r.Current.Time, err)
		}
		out.Current = &CurrentConditions{
			Time:          t,
			Temperature:   r.Current.Temperature,
			Precipitation: r.Current.Precipitation,
			WeatherCode:   r.Current.WeatherCode,
			WindSpeed:     r.Current.WindSpeed,
			IsDay:         r.Current.IsDay,
		}
	}

	if h := r.Hourly; h != nil {
		n := len(h.Time)
		series := map[string]int{
			"temperature_2m": len(h.Temperature),
			"precipitation":  len(h.Precipitation),
			"weather_code":   len(h.WeatherCode),
			"wind_speed_10m": len(h.WindSpeed),
		}
		// is_day is optional; when sent it must line up like the rest.
		if h.IsDay != nil {
			series["is_day"] = len(h.IsDay)
		}
		if err := sameLength("hourly", n, series); err != nil {
			return nil, err
		}
		out.Hourly = make([]HourlyPoint, 0, n)
		for i := range n {
			t, err := time.ParseInLocation(hourLayout, h.Time[i], loc)
			if err != nil {
				return nil, fmt.Errorf("hourly time %q: %w", h.Time[i], err)
			}
			out.Hourly = append(out.Hourly, HourlyPoint{
				Time:          t,
				Temperature:   h.Temperature[i],
				Precipitation: h.Precipitation[i],
				WeatherCode:   h.WeatherCode[i],
				WindSpeed:     h.WindSpeed[i],
				IsDay:         dayFlag(h.IsDay, i),
			})
		}
	}

	if d := r.Daily; d != nil {
		n := len(d.Time)
		if err := sameLength("daily", n, map[string]int{
			"weather_code":       len(d.WeatherCode),
			"temperature_2m_max": len(d.TemperatureMax),
			"temperature_2m_min": len(d.TemperatureMin),
			"precipitation_sum":  len(d.PrecipitationSum),
			"wind_speed_10m_max": len(d.WindSpeedMax),
		}); err != nil {
			return nil, err
		}
		out.Daily = make([]DailyPoint, 0, n)
		for i := range n {
			t, err := time.ParseInLocation(dayLayout, d.Time[i], loc)
			if err != nil {
				return nil, fmt.Errorf("daily time %q: %w", d.Time[i], err)
			}
			out.Daily = append(out.Daily, DailyPoint{
				Date:             t,
				WeatherCode:      d.WeatherCode[i],
				TemperatureMax:   d.TemperatureMax[i],
				TemperatureMin:   d.TemperatureMin[i],
				PrecipitationSum: d.PrecipitationSum[i],
				WindSpeedMax:     d.WindSpeedMax[i],
			})
		}
	}
	return out, nil
}

// dayFlag returns a copy of flags[i], or nil when the series was not sent.
func dayFlag(flags []int, i int) *int {
	if flags == nil {
		return nil
	}
	v := flags[i]
	return &v
}

func sameLength(block string, want int, series map[string]int) error {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if got := series[name]; got != want {
			return fmt.Errorf("%s series %s has %d values for %d timestamps", block, name, got, want)
		}
	}
	return nil
}

// remoteReason reports whether body is an API error document. Open-Meteo
// sends {"error": true, "reason": "..."}; a nested {"error": {...}} object
// is accepted as well.
func remoteReason(body []byte) (string, bool) {
	var doc struct {
		Error  json.RawMessage `json:"error"`
		Reason string          `json:"reason"`
	}
	if err := json.Unmarshal(body, &doc); err != nil || len(doc.Error) == 0 {
		return "", false
	}
	raw := bytes.TrimSpace(doc.Error)
	reason := doc.Reason
	switch {
	case bytes.Equal(raw, []byte("true")):
	case len(raw) > 0 && raw[0] == '{':
		var nested struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && strings.TrimSpace(nested.Reason) != "" {
			reason = nested.Reason
		}
	default:
		return "", false
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unspecified error"
	}
	return reason, true
}
