package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// palette holds the report colours. The values follow the Nightfox scheme
// (https://github.com/EdenEast/nightfox.nvim).
type palette struct {
	Border  string
	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

var nightfox = palette{
	Border:  "#39506d", // bg4
	Text:    "#cdcecf", // fg1
	Muted:   "#738091", // comment
	Accent:  "#719cd6", // blue
	Success: "#81b29a", // green
	Warning: "#dbc074", // yellow
	Danger:  "#c94f6d", // red
	Info:    "#63cdcf", // cyan
}

// styles contains the pre-built lipgloss styles for one palette.
type styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Temp    lipgloss.Style
	Box     lipgloss.Style
	Danger  lipgloss.Style

	levels map[zerolog.Level]lipgloss.Style
}

func (p palette) styles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)).
			Bold(true),
		Heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Info)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
		Temp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)).
			Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Danger)).
			Bold(true),
		levels: map[zerolog.Level]lipgloss.Style{
			zerolog.TraceLevel: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
			zerolog.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
			zerolog.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
			zerolog.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
			zerolog.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Danger)).Bold(true),
			zerolog.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Danger)).Bold(true),
		},
	}
}

// level returns the badge style for a log level.
func (s styles) level(l zerolog.Level) lipgloss.Style {
	if st, ok := s.levels[l]; ok {
		return st
	}
	return s.Muted
}
