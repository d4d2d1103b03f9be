package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Tail returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A missing file yields no
// lines and no error.
func Tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log line.
type Entry struct {
	Time      time.Time
	Level     zerolog.Level
	Component string
	Message   string
	Error     string
}

// ParseEntry decodes a line written by the file logger. Lines that are not
// JSON objects report false.
func ParseEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Entry{}, false
	}
	var raw struct {
		Time      string `json:"time"`
		Level     string `json:"level"`
		Component string `json:"component"`
		Message   string `json:"message"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	level, err := zerolog.ParseLevel(raw.Level)
	if err != nil {
		level = zerolog.NoLevel
	}
	ts, _ := time.Parse(time.RFC3339, raw.Time)
	return Entry{
		Time:      ts,
		Level:     level,
		Component: raw.Component,
		Message:   raw.Message,
		Error:     raw.Error,
	}, true
}
