// Package catalog parses the DWD MOSMIX station catalog.
//
// The catalog is a whitespace separated text table whose first line is a
// header:
//
//	ID    ICAO NAME                 LAT    LON     ELEV
//	10147 ---- HAMBURG              53.63  9.99    11
//
// Names may contain spaces, so the id and ICAO code are read from the front
// of a line and the coordinates and elevation from its end.
package catalog

import (
	"bufio"
	"io"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"mosmix-api/internal/models"
)

const minTokens = 6

// maxLineSize bounds a single catalog line.
const maxLineSize = 1024 * 1024

// Result is a fully parsed catalog together with the number of lines that
// were skipped as malformed.
type Result struct {
	Stations []models.Station
	Skipped  int
}

// Scanner yields catalog stations one at a time. Malformed lines are skipped
// and counted. Scanning a new reader over the same text restarts the sequence.
type Scanner struct {
	sc         *bufio.Scanner
	headerDone bool
	station    models.Station
	skipped    int
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Scan advances to the next valid station. It returns false at the end of
// the input or on a read error, see Err.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		if !s.headerDone {
			s.headerDone = true
			continue
		}

		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}

		station, ok := ParseLine(line)
		if !ok {
			s.skipped++
			continue
		}

		s.station = station
		return true
	}
	return false
}

// Station returns the station found by the last successful Scan.
func (s *Scanner) Station() models.Station {
	return s.station
}

// Skipped returns the number of non-blank lines rejected so far.
func (s *Scanner) Skipped() int {
	return s.skipped
}

func (s *Scanner) Err() error {
	return s.sc.Err()
}

// All returns the valid stations of r as a sequence.
func All(r io.Reader) iter.Seq[models.Station] {
	return func(yield func(models.Station) bool) {
		s := NewScanner(r)
		for s.Scan() {
			if !yield(s.Station()) {
				return
			}
		}
	}
}

// Parse returns every valid station of raw in catalog order.
func Parse(raw string) []models.Station {
	return slices.Collect(All(strings.NewReader(raw)))
}

func ParseWithStats(raw string) Result {
	var res Result

	s := NewScanner(strings.NewReader(raw))
	for s.Scan() {
		res.Stations = append(res.Stations, s.Station())
	}
	res.Skipped = s.Skipped()

	return res
}

// ParseLine decodes a single catalog row. ok is false when the row has fewer
// than six tokens, an empty id or unparsable coordinates.
func ParseLine(line string) (station models.Station, ok bool) {
	parts := strings.Fields(line)
	if len(parts) < minTokens {
		return models.Station{}, false
	}

	n := len(parts)
	latitude, err := strconv.ParseFloat(parts[n-3], 64)
	if err != nil {
		return models.Station{}, false
	}
	longitude, err := strconv.ParseFloat(parts[n-2], 64)
	if err != nil {
		return models.Station{}, false
	}
	if !finite(latitude) || !finite(longitude) {
		return models.Station{}, false
	}

	// elevation is informational only
	elevation, err := strconv.ParseFloat(parts[n-1], 64)
	if err != nil {
		elevation = 0
	}

	id := parts[0]
	if id == "" {
		return models.Station{}, false
	}

	return models.Station{
		ID:        id,
		ICAO:      parts[1],
		Name:      strings.Join(parts[2:n-3], " "),
		Latitude:  latitude,
		Longitude: longitude,
		Elevation: elevation,
		Active:    true,
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
