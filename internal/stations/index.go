// Package stations provides read-only queries over a loaded station catalog.
package stations

import (
	"strings"

	"mosmix-api/internal/models"
)

// MaxMajorStations caps the result of MajorStations.
const MaxMajorStations = 50

var majorCityNames = []string{
	"BERLIN",
	"HAMBURG",
	"MUENCHEN",
	"KOELN",
	"FRANKFURT",
	"STUTTGART",
	"DUESSELDORF",
	"DRESDEN",
	"LEIPZIG",
	"BREMEN",
	"HANNOVER",
	"NUERNBERG",
	"MAGDEBURG",
	"ERFURT",
	"FREIBURG",
	"AACHEN",
	"KASSEL",
	"ROSTOCK",
	"GREIFSWALD",
	"KARLSRUHE",
	"MANNHEIM",
	"WIESBADEN",
	"KIEL",
	"POTSDAM",
}

// Search returns the stations whose name, id or ICAO code contains query,
// ignoring case. An empty query returns stations unchanged.
func Search(stations []models.Station, query string) []models.Station {
	if query == "" {
		return stations
	}

	q := strings.ToLower(query)
	result := make([]models.Station, 0)
	for _, s := range stations {
		if matches(s, q) {
			result = append(result, s)
		}
	}
	return result
}

func matches(s models.Station, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(s.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(s.ID), lowerQuery) {
		return true
	}
	return s.HasICAO() && strings.Contains(strings.ToLower(s.ICAO), lowerQuery)
}

// MajorStations returns up to MaxMajorStations German stations located in
// well-known cities, in catalog order.
func MajorStations(stations []models.Station) []models.Station {
	result := make([]models.Station, 0)
	for _, s := range stations {
		if len(result) == MaxMajorStations {
			break
		}
		if isGerman(s.ID) && inMajorCity(s.Name) {
			result = append(result, s)
		}
	}
	return result
}

// isGerman uses the WMO block prefix of the station id.
func isGerman(id string) bool {
	if id == "" {
		return false
	}
	switch id[0] {
	case '1', '4', '5':
		return true
	}
	return false
}

func inMajorCity(name string) bool {
	upper := strings.ToUpper(name)
	for _, city := range majorCityNames {
		if strings.Contains(upper, city) {
			return true
		}
	}
	return false
}

// FindByID returns the station with the given id.
func FindByID(stations []models.Station, id string) (models.Station, bool) {
	for _, s := range stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}
