package models

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogUnavailable  = errors.New("station catalog unavailable")
	ErrForecastUnavailable = errors.New("forecast unavailable")
	ErrForecastMalformed   = errors.New("forecast payload malformed")
	ErrNoStations          = errors.New("no stations available")
	ErrSuperseded          = errors.New("request superseded by a newer one")
)

// FetchError is returned by upstream fetches. Kind is one of the sentinel
// errors above; errors.Is matches both Kind and the underlying cause.
type FetchError struct {
	Kind       error
	StationID  string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := e.Kind.Error()
	if e.StationID != "" {
		msg = fmt.Sprintf("%s (station %s)", msg, e.StationID)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: HTTP status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
