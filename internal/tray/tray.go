package tray

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/energye/systray"
	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/weather"
)

const (
	appTitle = "Tray Weather"
	// Windows stores tooltips in a 128 slot buffer including the terminator.
	maxTooltipRunes = 127
	eventBuffer     = 8
)

// MenuItem identifies an entry of the tray menu.
type MenuItem int

const (
	ItemUpdate MenuItem = iota
	ItemSettings
	ItemQuit
)

func (m MenuItem) String() string {
	switch m {
	case ItemUpdate:
		return "update"
	case ItemSettings:
		return "settings"
	case ItemQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// native is the part of the systray API the presenter drives after startup.
type native struct {
	setIcon    func([]byte)
	setTooltip func(string)
}

// Tray owns the system tray icon, its tooltip and its menu. Native
// callbacks only push onto buffered channels; events are dropped with a
// warning when nobody keeps up.
type Tray struct {
	log      zerolog.Logger
	renderer *icons.Renderer
	native   native

	menu   chan MenuItem
	clicks chan struct{}

	mu      sync.Mutex
	theme   icons.Theme
	initial []byte
}

// New prepares the presenter and renders the startup icon. An error here
// means the tray cannot be shown at all.
func New(log zerolog.Logger, renderer *icons.Renderer) (*Tray, error) {
	t := newTray(log, renderer, native{setIcon: systray.SetIcon, setTooltip: systray.SetTooltip})
	icon, err := renderer.Render(icons.DefaultTheme, "cloudy")
	if err != nil {
		return nil, fmt.Errorf("render startup icon: %w", err)
	}
	t.initial = icon
	return t, nil
}

func newTray(log zerolog.Logger, renderer *icons.Renderer, n native) *Tray {
	return &Tray{
		log:      log.With().Str("component", "tray").Logger(),
		renderer: renderer,
		native:   n,
		menu:     make(chan MenuItem, eventBuffer),
		clicks:   make(chan struct{}, eventBuffer),
		theme:    icons.DefaultTheme,
	}
}

// Run shows the tray and blocks until Quit. It must be called from the main
// goroutine. onReady runs once the menu exists and must not block.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.build()
		if onReady != nil {
			onReady()
		}
	}, func() {
		t.log.Debug().Msg("tray closed")
	})
}

// Quit removes the icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) build() {
	t.native.setIcon(t.initial)
	systray.SetTitle(appTitle)
	t.native.setTooltip(appTitle + ": updating")

	systray.SetOnClick(func(systray.IMenu) { t.click() })
	systray.SetOnRClick(func(menu systray.IMenu) { menu.ShowMenu() })

	systray.AddMenuItem("Update", "Refresh the weather now").Click(func() { t.emit(ItemUpdate) })
	systray.AddMenuItem("Settings", "Change location and display").Click(func() { t.emit(ItemSettings) })
	systray.AddSeparator()
	systray.AddMenuItem("Quit", "Exit "+appTitle).Click(func() { t.emit(ItemQuit) })
}

// MenuEvents delivers menu clicks.
func (t *Tray) MenuEvents() <-chan MenuItem {
	return t.menu
}

// Clicks delivers primary-button clicks on the icon.
func (t *Tray) Clicks() <-chan struct{} {
	return t.clicks
}

func (t *Tray) emit(item MenuItem) {
	select {
	case t.menu <- item:
	default:
		t.log.Warn().Stringer("item", item).Msg("menu event dropped")
	}
}

func (t *Tray) click() {
	select {
	case t.clicks <- struct{}{}:
	default:
		t.log.Warn().Msg("tray click dropped")
	}
}

// SetTheme selects the palette used by SetError. SetWeather carries its own.
func (t *Tray) SetTheme(theme icons.Theme) {
	if !theme.Valid() {
		return
	}
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
}

// SetWeather shows the icon for the current conditions and a tooltip such as
// "Berlin: 12.3°C - Overcast".
func (t *Tray) SetWeather(loc weather.Location, theme icons.Theme, current weather.CurrentWeather) error {
	t.SetTheme(theme)
	icon, err := t.renderer.Render(theme, current.IconName())
	if err != nil {
		return fmt.Errorf("render weather icon: %w", err)
	}
	t.native.setIcon(icon)
	t.native.setTooltip(Tooltip(loc, current))
	return nil
}

// SetError shows the alert icon with message as tooltip.
func (t *Tray) SetError(message string) error {
	t.mu.Lock()
	theme := t.theme
	t.mu.Unlock()

	icon, err := t.renderer.Render(theme, weather.ErrorIconName)
	if err != nil {
		return fmt.Errorf("render error icon: %w", err)
	}
	t.native.setIcon(icon)
	t.native.setTooltip(truncate(message, maxTooltipRunes))
	return nil
}

// Tooltip formats the weather summary shown on hover.
func Tooltip(loc weather.Location, current weather.CurrentWeather) string {
	name := loc.Name
	if name == "" {
		name = loc.HumanReadable()
	}
	text := fmt.Sprintf("%s: %.1f°C - %s", name, current.Temperature, current.Description())
	return truncate(text, maxTooltipRunes)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
