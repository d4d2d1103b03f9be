package weather

import "testing"

func TestIconName(t *testing.T) {
	tests := []struct {
		code int
		day  bool
		want string
	}{
		{0, true, "clearsky_day"},
		{0, false, "clearsky_night"},
		{2, false, "partlycloudy_night"},
		{3, false, "cloudy"},
		{65, true, "heavyrain"},
		{99, true, "heavysleetandthunder"},
		{42, true, ErrorIconName},
	}
	for _, tt := range tests {
		if got := IconName(tt.code, tt.day); got != tt.want {
			t.Errorf("IconName(%d, %v) = %q, want %q", tt.code, tt.day, got, tt.want)
		}
	}
}

func TestCurrentWeather_IconNameDefaultsToDay(t *testing.T) {
	night := 0
	w := CurrentWeather{WeatherCode: 1}
	if got := w.IconName(); got != "fair_day" {
		t.Fatalf("IconName without is_day = %q, want fair_day", got)
	}
	w.IsDay = &night
	if got := w.IconName(); got != "fair_night" {
		t.Fatalf("IconName at night = %q, want fair_night", got)
	}
}

func TestDescription_UnknownCode(t *testing.T) {
	if got := Description(-1); got != "Unknown weather conditions" {
		t.Fatalf("Description(-1) = %q", got)
	}
	if got := Description(95); got != "Thunderstorm" {
		t.Fatalf("Description(95) = %q", got)
	}
}

func TestLocation_EqualTreatsEmptyPostcodesAsNil(t *testing.T) {
	a := Location{ID: 1, Name: "Berlin"}
	b := Location{ID: 1, Name: "Berlin", Postcodes: []string{}}
	if !a.Equal(b) {
		t.Fatalf("Equal = false, want true for nil vs empty postcodes")
	}
	b.Postcodes = []string{"10115"}
	if a.Equal(b) {
		t.Fatalf("Equal = true, want false for differing postcodes")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"remote", &Error{Kind: KindRemote, Op: "x", Reason: "bad latitude"}, "Weather update failed: bad latitude"},
		{"no current", &Error{Kind: KindMalformed, Op: "x", Err: ErrNoCurrentWeather}, "Weather update failed: no current weather available"},
		{"malformed", &Error{Kind: KindMalformed, Op: "x"}, "Weather update failed: unexpected response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Fatalf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}
