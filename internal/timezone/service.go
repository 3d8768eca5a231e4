// Package timezone maps coordinates to IANA time zone names.
package timezone

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

type Service interface {
	Lookup(latitude, longitude float64) (*time.Location, error)
}

type service struct {
	finder tzf.F

	mu        sync.RWMutex
	locations map[string]*time.Location
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService returns the process wide lookup service. The finder keeps its
// polygon data in memory, so it is built once.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{
			finder:    finder,
			locations: make(map[string]*time.Location),
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// Lookup returns the time zone of the given coordinates.
func (s *service) Lookup(latitude, longitude float64) (*time.Location, error) {
	name := s.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return nil, fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}

	s.mu.RLock()
	loc, ok := s.locations[name]
	s.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %s: %w", name, err)
	}

	s.mu.Lock()
	s.locations[name] = loc
	s.mu.Unlock()

	return loc, nil
}
