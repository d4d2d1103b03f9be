package window

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/supervisor"
)

// ErrNoCommand is returned by launchers without a command line.
var ErrNoCommand = errors.New("no window command configured")

// DialogLauncher runs the settings form in a child process and waits for
// it. The child receives the current settings as TOML on stdin and answers
// with the new settings as TOML on stdout; no output means cancelled.
type DialogLauncher struct {
	Command []string
	// Env is appended to the parent's environment.
	Env []string
	Log zerolog.Logger
}

// Show implements the controller's settings dialog.
func (l *DialogLauncher) Show(ctx context.Context, current settings.Settings) (*settings.Settings, error) {
	if len(l.Command) == 0 {
		return nil, ErrNoCommand
	}
	input, err := settings.Encode(current)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, l.Command[0], l.Command[1:]...)
	cmd.Env = append(os.Environ(), l.Env...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.Log.Debug().Strs("command", l.Command).Msg("opening settings dialog")
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			l.Log.Debug().Str("stderr", msg).Msg("settings dialog output")
		}
		return nil, fmt.Errorf("settings dialog: %w", err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, nil
	}
	result, err := settings.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("settings dialog result: %w", err)
	}
	return &result, nil
}

// ForecastLauncher starts the forecast window in a child process. The
// process is waited for by a supervised task and killed on shutdown. Only
// one window is open at a time.
type ForecastLauncher struct {
	Command    []string
	Env        []string
	Supervisor *supervisor.Supervisor
	Log        zerolog.Logger

	mu   sync.Mutex
	open bool
}

// Show implements the controller's forecast viewer. It returns once the
// process has started.
func (l *ForecastLauncher) Show(_ context.Context, current settings.Settings) error {
	if len(l.Command) == 0 {
		return ErrNoCommand
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.open {
		l.Log.Debug().Msg("forecast window already open")
		return nil
	}

	input, err := settings.Encode(current)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(l.Supervisor.Context(), l.Command[0], l.Command[1:]...)
	cmd.Env = append(os.Environ(), l.Env...)
	cmd.Stdin = bytes.NewReader(input)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start forecast window: %w", err)
	}
	l.open = true

	err = l.Supervisor.Spawn("forecast-window", func(ctx context.Context) error {
		err := cmd.Wait()
		l.mu.Lock()
		l.open = false
		l.mu.Unlock()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("forecast window: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		l.open = false
		return fmt.Errorf("watch forecast window: %w", err)
	}
	return nil
}

// Open reports whether a forecast window is running.
func (l *ForecastLauncher) Open() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}
