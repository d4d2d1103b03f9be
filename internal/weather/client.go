package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher defines the calls the tray controller and the windows make.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	CurrentWeather(ctx context.Context, loc Location) (CurrentWeather, error)
	Forecast(ctx context.Context, loc Location) (*Forecast, error)
	SearchLocation(ctx context.Context, name, language string) ([]Location, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Endpoints overrides the remote service URLs. Empty fields use Open-Meteo.
type Endpoints struct {
	ForecastURL  string
	GeocodingURL string
}

// Client talks to the Open-Meteo forecast and geocoding APIs.
type Client struct {
	forecastURL  *url.URL
	geocodingURL *url.URL
	http         *http.Client
	userAgent    string
}

const (
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultUserAgent    = "tray-weather/0.1"
	requestTimeout      = 10 * time.Second
	searchResultCount   = 10
	forecastDays        = 7

	// maxBodyBytes bounds how much of a response is read before decoding.
	maxBodyBytes = 4 << 20
)

const (
	currentFields = "temperature_2m,precipitation,weather_code,wind_speed_10m,is_day"
	hourlyFields  = "temperature_2m,precipitation,weather_code,wind_speed_10m,is_day"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max"
)

// NewClient builds a Client for the given endpoints.
func NewClient(endpoints Endpoints) (*Client, error) {
	forecast, err := parseEndpoint(endpoints.ForecastURL, defaultForecastURL)
	if err != nil {
		return nil, fmt.Errorf("forecast endpoint: %w", err)
	}
	geocoding, err := parseEndpoint(endpoints.GeocodingURL, defaultGeocodingURL)
	if err != nil {
		return nil, fmt.Errorf("geocoding endpoint: %w", err)
	}
	return &Client{
		forecastURL:  forecast,
		geocodingURL: geocoding,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// CurrentWeather retrieves the current conditions at loc.
func (c *Client) CurrentWeather(ctx context.Context, loc Location) (CurrentWeather, error) {
	const op = "current weather"
	if c == nil {
		return CurrentWeather{}, fmt.Errorf("client is nil")
	}
	values := coordinates(loc)
	values.Set("current_weather", "true")

	var payload currentResponse
	if err := c.get(ctx, op, c.forecastURL, values, &payload); err != nil {
		return CurrentWeather{}, err
	}
	if payload.CurrentWeather == nil {
		return CurrentWeather{}, &Error{Kind: KindMalformed, Op: op, Err: ErrNoCurrentWeather}
	}
	return *payload.CurrentWeather, nil
}

// Forecast retrieves current, hourly and daily data for loc.
func (c *Client) Forecast(ctx context.Context, loc Location) (*Forecast, error) {
	const op = "forecast"
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := coordinates(loc)
	values.Set("current", currentFields)
	values.Set("hourly", hourlyFields)
	values.Set("daily", dailyFields)
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(forecastDays))

	var payload forecastResponse
	if err := c.get(ctx, op, c.forecastURL, values, &payload); err != nil {
		return nil, err
	}
	forecast, err := payload.toForecast()
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Op: op, Err: err}
	}
	return forecast, nil
}

// SearchLocation resolves a place name into candidate locations.
func (c *Client) SearchLocation(ctx context.Context, name, language string) ([]Location, error) {
	const op = "location search"
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("location name required")
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}
	values := url.Values{}
	values.Set("name", name)
	values.Set("language", language)
	values.Set("count", strconv.Itoa(searchResultCount))
	values.Set("format", "json")

	var payload searchResponse
	if err := c.get(ctx, op, c.geocodingURL, values, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// get performs the request and decodes the body into dest. Bodies carrying
// "error": true are reported as KindRemote whatever the HTTP status.
func (c *Client) get(ctx context.Context, op string, endpoint *url.URL, values url.Values, dest any) error {
	reqURL := *endpoint
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if reason, ok := remoteReason(body); ok {
		return &Error{Kind: KindRemote, Op: op, Reason: reason}
	}

	if resp.StatusCode >= 400 {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("api returned status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func coordinates(loc Location) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	return values
}

func parseEndpoint(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, errors.New("endpoint has no host")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
