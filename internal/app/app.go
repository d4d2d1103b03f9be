package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/autorun"
	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/state"
	"github.com/osor/tray-weather/internal/supervisor"
	"github.com/osor/tray-weather/internal/tray"
	"github.com/osor/tray-weather/internal/weather"
	"github.com/osor/tray-weather/internal/window"
)

// Subcommands the tray starts its windows with.
const (
	SettingsDialogCommand = "settings-dialog"
	ForecastCommand       = "forecast"
)

// Options configure the tray application.
type Options struct {
	SettingsPath string // empty uses settings.DefaultPath
	LogFile      string // passed on to the window processes
	LogLevel     string
	Executable   string // empty uses os.Executable
	Endpoints    weather.Endpoints
	Log          zerolog.Logger
}

// Run shows the tray and blocks until the user quits or ctx is cancelled.
// It must be called from the main goroutine.
func Run(ctx context.Context, opts Options) error {
	log := opts.Log

	exe := opts.Executable
	if exe == "" {
		path, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		exe = path
	}

	store, err := settings.NewStore(opts.SettingsPath)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	client, err := weather.NewClient(opts.Endpoints)
	if err != nil {
		return fmt.Errorf("init weather client: %w", err)
	}

	presenter, err := tray.New(log, icons.NewRenderer(icons.DefaultSize))
	if err != nil {
		return fmt.Errorf("build tray: %w", err)
	}

	sup := supervisor.New(ctx, log)
	controller := NewController(Deps{
		Weather:   client,
		Store:     store,
		Presenter: presenter,
		Dialog: &window.DialogLauncher{
			Command: childCommand(exe, opts, SettingsDialogCommand),
			Log:     log,
		},
		Forecast: &window.ForecastLauncher{
			Command:    childCommand(exe, opts, ForecastCommand),
			Supervisor: sup,
			Log:        log,
		},
		Autostart:  autorun.New(exe, globalArgs(opts)...),
		Supervisor: sup,
		State:      &state.Store{},
		Log:        log,
	})

	runErr := make(chan error, 1)
	presenter.Run(func() {
		if err := startFeeders(sup, presenter, controller.Intake()); err != nil {
			runErr <- err
			presenter.Quit()
			return
		}
		go func() {
			err := controller.Run(sup.Context())
			runErr <- err
			presenter.Quit()
		}()
	})

	sup.Shutdown()
	select {
	case err := <-runErr:
		if errors.Is(err, ErrNoSettings) {
			log.Info().Msg("no location chosen, exiting")
		}
		return err
	default:
		return nil
	}
}

// startFeeders forwards the tray's native events into the controller.
func startFeeders(sup *supervisor.Supervisor, t *tray.Tray, intake chan<- Message) error {
	menu := Forward(t.MenuEvents(), intake, menuMessage)
	if err := sup.Spawn("menu-feeder", menu); err != nil {
		return fmt.Errorf("start menu feeder: %w", err)
	}

	clicks := Forward(t.Clicks(), intake, func(struct{}) (Message, bool) {
		return TrayClickedMessage(), true
	})
	if err := sup.Spawn("click-feeder", clicks); err != nil {
		return fmt.Errorf("start click feeder: %w", err)
	}
	return nil
}

// menuMessage translates a tray menu item; unknown items are dropped.
func menuMessage(item tray.MenuItem) (Message, bool) {
	switch item {
	case tray.ItemUpdate:
		return MenuMessage(MenuUpdate), true
	case tray.ItemSettings:
		return MenuMessage(MenuOpenSettings), true
	case tray.ItemQuit:
		return MenuMessage(MenuQuit), true
	}
	return Message{}, false
}

// globalArgs repeats the flags that must reach every process of the app.
func globalArgs(opts Options) []string {
	var args []string
	if opts.SettingsPath != "" {
		args = append(args, "-settings", opts.SettingsPath)
	}
	if opts.LogFile != "" {
		args = append(args, "-log-file", opts.LogFile)
	}
	if opts.LogLevel != "" {
		args = append(args, "-log-level", opts.LogLevel)
	}
	return args
}

func childCommand(exe string, opts Options, sub string) []string {
	cmd := append([]string{exe}, globalArgs(opts)...)
	return append(cmd, sub)
}
