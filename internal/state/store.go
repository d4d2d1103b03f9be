package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/osor/tray-weather/internal/weather"
)

// Snapshot is the outcome of the latest weather refreshes.
type Snapshot struct {
	Weather             weather.CurrentWeather
	HasWeather          bool
	LastUpdated         time.Time // time of the last attempt, successful or not
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the service has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a refresh outcome. When err is non-nil the previous weather
// is kept and the failure counted.
func (s *Store) Update(current *weather.CurrentWeather, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastUpdated = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if current != nil {
		s.snapshot.Weather = *current
		s.snapshot.Weather.IsDay = cloneInt(current.IsDay)
		s.snapshot.HasWeather = true
	} else {
		s.snapshot.Weather = weather.CurrentWeather{}
		s.snapshot.HasWeather = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
}

// Reset forgets the stored weather, for example after the location changed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Weather.IsDay = cloneInt(s.snapshot.Weather.IsDay)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	dup := *v
	return &dup
}
