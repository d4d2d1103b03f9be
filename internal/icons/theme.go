package icons

import (
	"fmt"
	"strings"
)

// Theme selects the icon palette shown in the tray.
type Theme string

const (
	// ThemeMetno uses the coloured met.no style.
	ThemeMetno Theme = "metno"
	// ThemeMonochrome draws every glyph in a single light tone for dark panels.
	ThemeMonochrome Theme = "monochrome"
)

// DefaultTheme is used when settings do not name a theme.
const DefaultTheme = ThemeMetno

// Themes lists every supported theme in display order.
func Themes() []Theme {
	return []Theme{ThemeMetno, ThemeMonochrome}
}

// ParseTheme accepts a theme name case-insensitively.
func ParseTheme(value string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown icon theme %q", value)
	}
	return t, nil
}

// Valid reports whether t is one of Themes.
func (t Theme) Valid() bool {
	return t == ThemeMetno || t == ThemeMonochrome
}

func (t Theme) String() string {
	return string(t)
}

// MarshalText implements encoding.TextMarshaler.
func (t Theme) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown icon theme %q", string(t))
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
