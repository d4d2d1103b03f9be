package settings

import (
	"errors"
	"fmt"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/weather"
)

// DefaultUpdateInterval is the refresh period, in minutes, used when the
// settings file does not name one.
const DefaultUpdateInterval = 15

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings is the persisted user configuration.
type Settings struct {
	Location       weather.Location `toml:"location"`
	IconTheme      icons.Theme      `toml:"icon_theme"`
	AutorunEnabled bool             `toml:"autorun_enabled"`
	// UpdateInterval is in minutes.
	UpdateInterval int `toml:"update_interval"`
}

// New builds validated settings.
func New(loc weather.Location, theme icons.Theme, autorun bool, intervalMinutes int) (Settings, error) {
	s := Settings{
		Location:       loc,
		IconTheme:      theme,
		AutorunEnabled: autorun,
		UpdateInterval: intervalMinutes,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Default returns the seed shown by the first-run dialog. It has no location
// and therefore does not validate.
func Default() Settings {
	return Settings{
		IconTheme:      icons.DefaultTheme,
		UpdateInterval: DefaultUpdateInterval,
	}
}

// Validate reports why s cannot be used, wrapping ErrInvalid.
func (s Settings) Validate() error {
	if s.Location.IsZero() {
		return fmt.Errorf("%w: no location selected", ErrInvalid)
	}
	if s.UpdateInterval <= 0 {
		return fmt.Errorf("%w: update interval must be positive, got %d", ErrInvalid, s.UpdateInterval)
	}
	if !s.IconTheme.Valid() {
		return fmt.Errorf("%w: unknown icon theme %q", ErrInvalid, string(s.IconTheme))
	}
	return nil
}

// Equal compares two settings field by field.
func (s Settings) Equal(other Settings) bool {
	return s.IconTheme == other.IconTheme &&
		s.AutorunEnabled == other.AutorunEnabled &&
		s.UpdateInterval == other.UpdateInterval &&
		s.Location.Equal(other.Location)
}
