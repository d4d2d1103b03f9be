package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	appDirName  = "TrayWeather"
	logFileName = "weathertray.log"
)

// Options configure Setup.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// File receives JSON lines. Empty disables the file.
	File string
	// Console receives human-readable output. Nil disables it.
	Console io.Writer
}

// DefaultFile returns <user config dir>/TrayWeather/weathertray.log.
func DefaultFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, logFileName), nil
}

// ParseLevel accepts zerolog level names case-insensitively; empty is info.
func ParseLevel(value string) (zerolog.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

// Setup builds the process logger. The returned closer releases the log
// file and is never nil.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly})
	}

	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
