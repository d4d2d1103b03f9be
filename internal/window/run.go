package window

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
)

// AppID identifies the windows to the desktop environment.
const AppID = "io.github.osor.trayweather"

const maxProtocolBytes = 1 << 20

// RunSettingsForm shows the settings window and blocks until it closes. It
// returns nil when the user cancelled or closed the window.
func RunSettingsForm(ctx context.Context, current settings.Settings, searcher LocationSearcher) *settings.Settings {
	a := app.NewWithID(AppID)
	w := a.NewWindow("Tray Weather Settings")

	var result *settings.Settings
	form := newSettingsForm(ctx, current, searcher, func(s *settings.Settings) {
		result = s
		w.Close()
	})
	w.SetOnClosed(form.Cancel)
	w.SetContent(form.Content())
	w.Resize(fyne.NewSize(520, 320))
	w.CenterOnScreen()

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()
	w.ShowAndRun()
	return result
}

// RunForecast shows the forecast window and blocks until it closes.
func RunForecast(ctx context.Context, s settings.Settings, source ForecastSource, renderer *icons.Renderer) {
	a := app.NewWithID(AppID)
	w := a.NewWindow("Forecast: " + describeLocation(s.Location))

	view := newForecastView(ctx, s, source, renderer)
	w.SetContent(view.Content())
	w.Resize(fyne.NewSize(760, 460))
	w.CenterOnScreen()
	view.Load()

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()
	w.ShowAndRun()
}

// ServeSettingsDialog is the child side of DialogLauncher: it reads the
// current settings as TOML from in, shows the form and writes the result as
// TOML to out. Nothing is written when the user cancels.
func ServeSettingsDialog(ctx context.Context, in io.Reader, out io.Writer, searcher LocationSearcher) error {
	current, err := readSettings(in)
	if err != nil {
		return err
	}
	result := RunSettingsForm(ctx, current, searcher)
	if result == nil {
		return nil
	}
	data, err := settings.Encode(*result)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write dialog result: %w", err)
	}
	return nil
}

// ServeForecast is the child side of ForecastLauncher.
func ServeForecast(ctx context.Context, in io.Reader, source ForecastSource, renderer *icons.Renderer) error {
	current, err := readSettings(in)
	if err != nil {
		return err
	}
	RunForecast(ctx, current, source, renderer)
	return nil
}

// readSettings decodes the parent's settings. An empty stream yields the
// defaults so the windows can also be started by hand.
func readSettings(in io.Reader) (settings.Settings, error) {
	data, err := io.ReadAll(io.LimitReader(in, maxProtocolBytes))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("read settings from parent: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return settings.Default(), nil
	}
	return settings.Parse(data)
}
