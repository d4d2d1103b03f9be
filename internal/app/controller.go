package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/state"
	"github.com/osor/tray-weather/internal/supervisor"
	"github.com/osor/tray-weather/internal/weather"
)

// IntakeSize is the buffer of the controller's message channel.
const IntakeSize = 16

const (
	minRetryDelay = time.Minute
	// Beyond this many failures the shifted delay would overflow; the
	// interval cap applies long before.
	maxRetryShift = 20
)

// ErrNoSettings is returned by Run when the first-run dialog was cancelled.
var ErrNoSettings = errors.New("no settings configured")

// WeatherSource fetches current conditions.
type WeatherSource interface {
	CurrentWeather(ctx context.Context, loc weather.Location) (weather.CurrentWeather, error)
}

// SettingsStore persists settings.
type SettingsStore interface {
	Exists() bool
	Load() (settings.Settings, error)
	Save(settings.Settings) error
}

// Presenter shows the refresh outcome on the tray.
type Presenter interface {
	SetTheme(theme icons.Theme)
	SetWeather(loc weather.Location, theme icons.Theme, current weather.CurrentWeather) error
	SetError(message string) error
}

// SettingsDialog shows the settings form and blocks until it closes. A nil
// result without error means the user cancelled.
type SettingsDialog interface {
	Show(ctx context.Context, current settings.Settings) (*settings.Settings, error)
}

// ForecastViewer opens the forecast window without waiting for it.
type ForecastViewer interface {
	Show(ctx context.Context, current settings.Settings) error
}

// Autostarter registers or removes the tray from the login items.
type Autostarter interface {
	Apply(enabled bool) error
}

// Deps are the controller's collaborators.
type Deps struct {
	Weather    WeatherSource
	Store      SettingsStore
	Presenter  Presenter
	Dialog     SettingsDialog
	Forecast   ForecastViewer
	Autostart  Autostarter
	Supervisor *supervisor.Supervisor
	State      *state.Store // optional
	Log        zerolog.Logger
}

// Controller is the single consumer of tray events. It owns the settings and
// decides what the tray shows.
type Controller struct {
	weather   WeatherSource
	store     SettingsStore
	presenter Presenter
	dialog    SettingsDialog
	forecast  ForecastViewer
	autostart Autostarter
	sup       *supervisor.Supervisor
	state     *state.Store
	log       zerolog.Logger

	intake   chan Message
	settings settings.Settings
	ticker   *Ticker
}

// NewController wires a controller. Call Run to start it.
func NewController(deps Deps) *Controller {
	st := deps.State
	if st == nil {
		st = &state.Store{}
	}
	return &Controller{
		weather:   deps.Weather,
		store:     deps.Store,
		presenter: deps.Presenter,
		dialog:    deps.Dialog,
		forecast:  deps.Forecast,
		autostart: deps.Autostart,
		sup:       deps.Supervisor,
		state:     st,
		log:       deps.Log.With().Str("component", "controller").Logger(),
		intake:    make(chan Message, IntakeSize),
	}
}

// Intake is where feeders deliver messages. Messages are processed strictly
// in the order they arrive.
func (c *Controller) Intake() chan<- Message {
	return c.intake
}

// Settings returns the settings in effect. It must only be called from the
// goroutine running Run, or after Run returned.
func (c *Controller) Settings() settings.Settings {
	return c.settings
}

// Run loads settings, running the first-run dialog when there are none,
// starts the timer and processes messages until Quit or ctx is cancelled.
// The supervisor is shut down before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	defer c.sup.Shutdown()

	skipStartupRefresh, err := c.loadSettings(ctx)
	if err != nil {
		// A signal kills the first-run dialog; that is a shutdown, not a cancel.
		if ctx.Err() != nil {
			c.log.Info().Msg("context cancelled during first run, shutting down")
			return nil
		}
		return err
	}

	c.presenter.SetTheme(c.settings.IconTheme)
	c.applyAutorun()

	c.ticker = NewTicker(c.intake, c.interval())
	if err := c.sup.Spawn("ticker", c.ticker.Run); err != nil {
		return fmt.Errorf("start ticker: %w", err)
	}

	// Messages queued before Run are handled before the startup refresh.
	backlog := len(c.intake)
	if skipStartupRefresh {
		backlog = -1
	}
	for {
		if backlog == 0 {
			backlog = -1
			c.handle(ctx, TimerMessage())
		}
		select {
		case <-ctx.Done():
			c.log.Info().Msg("context cancelled, shutting down")
			return nil
		case msg := <-c.intake:
			if backlog > 0 {
				backlog--
			}
			if quit := c.handle(ctx, msg); quit {
				return nil
			}
		}
	}
}

// loadSettings returns true when the first-run save failed and the warning
// should stay on the tray until the next tick.
func (c *Controller) loadSettings(ctx context.Context) (bool, error) {
	loaded, err := c.store.Load()
	if err == nil {
		c.settings = loaded
		return false, nil
	}
	if !c.store.Exists() {
		c.log.Info().Msg("no settings file, opening first-run dialog")
	} else {
		c.log.Warn().Err(err).Msg("settings unusable, opening first-run dialog")
	}

	result := c.showDialog(ctx, settings.Default())
	if result == nil {
		c.log.Info().Msg("first-run dialog cancelled")
		return false, ErrNoSettings
	}
	c.settings = *result
	if err := c.store.Save(*result); err != nil {
		c.reportSaveError(err)
		return true, nil
	}
	return false, nil
}

func (c *Controller) handle(ctx context.Context, msg Message) (quit bool) {
	log := c.log.With().Str("msg_id", msg.ID.String()).Str("msg", msg.String()).Logger()
	log.Debug().Msg("message received")

	switch msg.Kind {
	case KindTimer:
		c.refresh(ctx, log)
	case KindMenu:
		switch msg.Action {
		case MenuUpdate:
			c.refresh(ctx, log)
		case MenuOpenSettings:
			result := c.showDialog(ctx, c.settings)
			return c.handle(ctx, SettingsCompletedMessage(result))
		case MenuQuit:
			log.Info().Msg("quit requested")
			c.sup.Shutdown()
			return true
		default:
			log.Warn().Msg("unknown menu action")
		}
	case KindTrayClicked:
		if err := c.forecast.Show(ctx, c.settings); err != nil {
			log.Error().Err(err).Msg("open forecast window")
		}
	case KindSettingsCompleted:
		if msg.Settings == nil {
			log.Debug().Msg("settings dialog cancelled")
			return false
		}
		c.applySettings(ctx, *msg.Settings, log)
	default:
		log.Warn().Msg("unknown message kind")
	}
	return false
}

func (c *Controller) refresh(ctx context.Context, log zerolog.Logger) {
	current, err := c.weather.CurrentWeather(ctx, c.settings.Location)
	if err != nil {
		c.state.Update(nil, err)
		snap := c.state.Snapshot()
		failures := snap.ConsecutiveFailures
		delay := retryDelay(failures, c.interval())

		event := log.Warn().Err(err).Int("failures", failures).Bool("offline", snap.IsOffline()).Dur("retry_in", delay)
		if kind, ok := weather.KindOf(err); ok {
			event = event.Stringer("kind", kind)
		}
		event.Msg("weather refresh failed")

		if err := c.presenter.SetError(weather.Message(err)); err != nil {
			log.Error().Err(err).Msg("show error on tray")
		}
		c.ticker.Reset(delay)
		return
	}

	c.state.Update(&current, nil)
	log.Debug().Float64("temperature", current.Temperature).Int("code", current.WeatherCode).Msg("weather refreshed")
	if err := c.presenter.SetWeather(c.settings.Location, c.settings.IconTheme, current); err != nil {
		log.Error().Err(err).Msg("show weather on tray")
	}
	c.ticker.Reset(c.interval())
}

func (c *Controller) applySettings(ctx context.Context, next settings.Settings, log zerolog.Logger) {
	if err := next.Validate(); err != nil {
		log.Error().Err(err).Msg("settings dialog returned invalid settings")
		return
	}

	saveErr := c.store.Save(next)
	prev := c.settings
	c.settings = next
	if !prev.Location.Equal(next.Location) {
		c.state.Reset()
	}
	c.presenter.SetTheme(next.IconTheme)
	c.applyAutorun()
	c.ticker.Reset(c.interval())

	if saveErr != nil {
		c.reportSaveError(saveErr)
		return
	}
	log.Info().Str("location", next.Location.HumanReadable()).Int("interval_min", next.UpdateInterval).Msg("settings saved")
	c.refresh(ctx, log)
}

// showDialog runs the settings dialog; launch failures count as a cancel.
func (c *Controller) showDialog(ctx context.Context, current settings.Settings) *settings.Settings {
	result, err := c.dialog.Show(ctx, current)
	if err != nil {
		c.log.Error().Err(err).Msg("settings dialog failed")
		return nil
	}
	if result != nil {
		if err := result.Validate(); err != nil {
			c.log.Error().Err(err).Msg("settings dialog returned invalid settings")
			return nil
		}
	}
	return result
}

func (c *Controller) reportSaveError(err error) {
	c.log.Error().Err(err).Msg("settings could not be saved; changes will be lost on restart")
	if err := c.presenter.SetError("Settings could not be saved: " + err.Error()); err != nil {
		c.log.Error().Err(err).Msg("show error on tray")
	}
}

func (c *Controller) applyAutorun() {
	if err := c.autostart.Apply(c.settings.AutorunEnabled); err != nil {
		c.log.Warn().Err(err).Bool("enabled", c.settings.AutorunEnabled).Msg("apply autorun")
	}
}

func (c *Controller) interval() time.Duration {
	return time.Duration(c.settings.UpdateInterval) * time.Minute
}

// retryDelay is the wait before the next refresh after failures consecutive
// errors: 1, 2, 4 ... minutes, never longer than the configured interval.
func retryDelay(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || failures > maxRetryShift {
		return interval
	}
	delay := minRetryDelay << (failures - 1)
	if delay > interval {
		return interval
	}
	return delay
}
