package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	appDirName   = "TrayWeather"
	fileName     = "settings.toml"
	maxFileBytes = 1 << 20
)

// ErrNotFound is wrapped by Load when the settings file does not exist.
var ErrNotFound = errors.New("settings file not found")

// Store reads and writes settings at a fixed path.
type Store struct {
	path string
}

// DefaultPath returns <user config dir>/TrayWeather/settings.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// NewStore returns a Store for path. An empty path selects DefaultPath and a
// leading "~" expands to the home directory.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		def, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = def
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the absolute settings file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the settings file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads and validates the settings file. Fields missing from the file
// take their Default values; a missing location fails validation.
func (s *Store) Load() (Settings, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxFileBytes))
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return Decode(data)
}

// Save writes settings, creating parent directories as needed.
func (s *Store) Save(settings Settings) error {
	data, err := Encode(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Encode renders settings as TOML.
func Encode(settings Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(settings); err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates TOML settings, applying defaults for missing
// optional fields.
func Decode(data []byte) (Settings, error) {
	out, err := Parse(data)
	if err != nil {
		return Settings{}, err
	}
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}

// Parse is Decode without validation, for seeds such as Default that are
// not yet complete.
func Parse(data []byte) (Settings, error) {
	out := Default()
	if err := toml.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return out, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
