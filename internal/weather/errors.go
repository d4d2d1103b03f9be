package weather

import (
	"errors"
	"fmt"
)

// ErrNoCurrentWeather reports a successful response without a current block.
var ErrNoCurrentWeather = errors.New("response has no current weather")

// ErrorKind classifies why a request failed.
type ErrorKind int

const (
	// KindTransport covers network failures and non-JSON HTTP errors.
	KindTransport ErrorKind = iota
	// KindMalformed covers bodies that do not decode or miss required data.
	KindMalformed
	// KindRemote covers errors the service reports in its JSON body.
	KindRemote
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	case KindRemote:
		return "remote"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client call that fails after the request was built.
type Error struct {
	Kind   ErrorKind
	Op     string
	Reason string // set for KindRemote
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRemote:
		return fmt.Sprintf("%s: service error: %s", e.Op, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a client error and whether err was one.
func KindOf(err error) (ErrorKind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return 0, false
}

// Message turns any client failure into the text shown in the tray tooltip.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var werr *Error
	if !errors.As(err, &werr) {
		return "Weather update failed: " + err.Error()
	}
	switch werr.Kind {
	case KindTransport:
		return "Weather update failed: service unreachable"
	case KindRemote:
		return "Weather update failed: " + werr.Reason
	case KindMalformed:
		if errors.Is(werr, ErrNoCurrentWeather) {
			return "Weather update failed: no current weather available"
		}
		return "Weather update failed: unexpected response"
	default:
		return "Weather update failed"
	}
}
