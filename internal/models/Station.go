package models

import (
	"fmt"
	"math"
)

// NoICAO is the catalog placeholder for stations without an airport code.
const NoICAO = "----"

// Station is a single entry of the MOSMIX station catalog.
//
// IDs are only meaningful within the catalog revision they were loaded from.
type Station struct {
	ID        string  `json:"id" example:"10147"`
	ICAO      string  `json:"icao" example:"EDDH"`
	Name      string  `json:"name" example:"HAMBURG"`
	Latitude  float64 `json:"latitude" example:"53.63"`
	Longitude float64 `json:"longitude" example:"9.99"`
	Elevation float64 `json:"elevation" example:"11"`
	Active    bool    `json:"active" example:"true"`
}

// HasICAO reports whether the station carries a real airport code.
func (s Station) HasICAO() bool {
	return s.ICAO != "" && s.ICAO != NoICAO
}

// Point returns the station coordinates.
func (s Station) Point() GeoPoint {
	return GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude}
}

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"lat" example:"53.5"`
	Longitude float64 `json:"lon" example:"10.0"`
}

func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", p.Longitude)
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f", p.Latitude, p.Longitude)
}

// NearestStationResult is produced per query and never cached.
type NearestStationResult struct {
	StationID   string  `json:"station_id" example:"10147"`
	StationName string  `json:"station_name" example:"HAMBURG"`
	DistanceKm  float64 `json:"distance_km" example:"13.7"`
	TimeZone    string  `json:"time_zone,omitempty" example:"Europe/Berlin"`
}
