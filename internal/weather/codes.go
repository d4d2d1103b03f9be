package weather

import "strings"

// ErrorIconName is the icon shown when no weather can be displayed.
const ErrorIconName = "exclamation-circle"

type codeInfo struct {
	description string
	icon        string
}

// WMO weather interpretation codes as used by Open-Meteo.
var weatherCodes = map[int]codeInfo{
	0:  {"Clear sky", "clearsky_day"},
	1:  {"Mainly clear", "fair_day"},
	2:  {"Partly cloudy", "partlycloudy_day"},
	3:  {"Overcast", "cloudy"},
	45: {"Fog", "fog"},
	48: {"Depositing rime fog", "fog"},
	51: {"Light drizzle", "lightrain"},
	53: {"Moderate drizzle", "lightrain"},
	55: {"Dense drizzle", "lightrain"},
	56: {"Light freezing drizzle", "lightrain"},
	57: {"Dense freezing drizzle", "lightrain"},
	61: {"Slight rain", "lightrain"},
	63: {"Moderate rain", "rain"},
	65: {"Heavy rain", "heavyrain"},
	66: {"Light freezing rain", "lightrain"},
	67: {"Heavy freezing rain", "heavyrain"},
	71: {"Slight snowfall", "lightsnow"},
	73: {"Moderate snowfall", "snow"},
	75: {"Heavy snowfall", "heavysnow"},
	77: {"Snow grains", "lightsnow"},
	80: {"Slight rain showers", "lightrain"},
	81: {"Moderate rain showers", "rain"},
	82: {"Violent rain showers", "heavyrain"},
	85: {"Slight snow showers", "lightsleet"},
	86: {"Heavy snow showers", "heavysleet"},
	95: {"Thunderstorm", "heavyrainandthunder"},
	96: {"Thunderstorm with slight hail", "sleetandthunder"},
	99: {"Thunderstorm with heavy hail", "heavysleetandthunder"},
}

// Description returns the English text for a WMO weather code.
func Description(code int) string {
	if info, ok := weatherCodes[code]; ok {
		return info.description
	}
	return "Unknown weather conditions"
}

// IconName returns the met.no icon name for a WMO weather code. Unknown
// codes map to ErrorIconName.
func IconName(code int, day bool) string {
	info, ok := weatherCodes[code]
	if !ok {
		return ErrorIconName
	}
	if !day {
		if base, found := strings.CutSuffix(info.icon, "_day"); found {
			return base + "_night"
		}
	}
	return info.icon
}
