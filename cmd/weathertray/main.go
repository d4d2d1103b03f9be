package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/app"
	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/logging"
	"github.com/osor/tray-weather/internal/report"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/setup"
	"github.com/osor/tray-weather/internal/weather"
	"github.com/osor/tray-weather/internal/window"
)

func main() {
	os.Exit(run())
}

type globals struct {
	settingsPath string
	logFile      string
	logLevel     string
}

func run() int {
	var g globals
	flag.StringVar(&g.settingsPath, "settings", "", "override settings file path (optional)")
	flag.StringVar(&g.logFile, "log-file", "", "log file path (optional, defaults to the config dir)")
	flag.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	cmd := "tray"
	args := flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The setup command owns the terminal.
	var console io.Writer = os.Stderr
	if cmd == "setup" {
		console = nil
	}
	if g.logFile == "" {
		if path, err := logging.DefaultFile(); err == nil {
			g.logFile = path
		}
	}
	log, closer, err := logging.Setup(logging.Options{Level: g.logLevel, File: g.logFile, Console: console})
	if err != nil {
		fmt.Fprintf(os.Stderr, "weathertray: %v\n", err)
		return 1
	}
	defer closer.Close()
	log = log.With().Str("cmd", cmd).Logger()

	switch cmd {
	case "tray":
		err = runTray(ctx, g, log)
	case app.SettingsDialogCommand:
		err = runSettingsDialog(ctx)
	case app.ForecastCommand:
		err = runForecast(ctx)
	case "report":
		err = runReport(ctx, g, args)
	case "setup":
		err = runSetup(ctx, g, args)
	default:
		fmt.Fprintf(os.Stderr, "weathertray: unknown command %q\n", cmd)
		usage()
		return 2
	}
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		if console == nil {
			fmt.Fprintf(os.Stderr, "weathertray: %v\n", err)
		}
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: weathertray [flags] [command]

Commands:
  tray              show the weather in the system tray (default)
  report [-logs N]  print the forecast, optionally with the last N log lines (-1: all)
  setup [-lang xx]  pick the location in the terminal

Flags:
`)
	flag.PrintDefaults()
}

func runTray(ctx context.Context, g globals, log zerolog.Logger) error {
	err := app.Run(ctx, app.Options{
		SettingsPath: g.settingsPath,
		LogFile:      g.logFile,
		LogLevel:     g.logLevel,
		Log:          log,
	})
	if errors.Is(err, app.ErrNoSettings) {
		return fmt.Errorf("%w: choose a location to start the tray", err)
	}
	return err
}

func runSettingsDialog(ctx context.Context) error {
	client, err := weather.NewClient(weather.Endpoints{})
	if err != nil {
		return err
	}
	return window.ServeSettingsDialog(ctx, os.Stdin, os.Stdout, client)
}

func runForecast(ctx context.Context) error {
	client, err := weather.NewClient(weather.Endpoints{})
	if err != nil {
		return err
	}
	return window.ServeForecast(ctx, os.Stdin, client, icons.NewRenderer(icons.DefaultSize))
}

func runReport(ctx context.Context, g globals, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	logLines := fs.Int("logs", 0, "append the last N lines of the log file; -1 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := settings.NewStore(g.settingsPath)
	if err != nil {
		return err
	}
	current, err := store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	client, err := weather.NewClient(weather.Endpoints{})
	if err != nil {
		return err
	}

	r, err := report.Build(ctx, client, current.Location, report.Options{LogFile: g.logFile, LogLines: *logLines})
	if err != nil {
		return err
	}
	fmt.Print(r.Render())
	return nil
}

func runSetup(ctx context.Context, g globals, args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	lang := fs.String("lang", "en", "language of place names")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := settings.NewStore(g.settingsPath)
	if err != nil {
		return err
	}
	client, err := weather.NewClient(weather.Endpoints{})
	if err != nil {
		return err
	}

	saved, err := setup.Run(ctx, client, store, *lang)
	if err != nil {
		return err
	}
	if saved != nil {
		fmt.Printf("Saved %s to %s\n", saved.Location.HumanReadable(), store.Path())
	}
	return nil
}
