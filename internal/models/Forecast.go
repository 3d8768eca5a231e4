package models

import (
	"fmt"
	"time"
)

// MaxHourlyEntries caps the hourly series of a WeatherForecast.
const MaxHourlyEntries = 24

// UnknownStationName is used when the upstream payload carries no station name.
const UnknownStationName = "Unbekannt"

type WeatherForecast struct {
	StationID   string           `json:"station_id" example:"10147"`
	StationName string           `json:"station_name" example:"HAMBURG"`
	Days        []ForecastDay    `json:"days"`
	Hourly      []HourlyForecast `json:"hourly"`
}

func (f WeatherForecast) Summary() string {
	return fmt.Sprintf("station: %s days: %d hours: %d", f.StationID, len(f.Days), len(f.Hourly))
}

// InLocation returns a copy of the forecast with hourly times expressed in loc.
func (f WeatherForecast) InLocation(loc *time.Location) WeatherForecast {
	if loc == nil || len(f.Hourly) == 0 {
		return f
	}
	hourly := make([]HourlyForecast, len(f.Hourly))
	for i, h := range f.Hourly {
		h.Time = h.Time.In(loc)
		hourly[i] = h
	}
	f.Hourly = hourly
	return f
}

// LocationForecast pairs a resolved station with its forecast.
type LocationForecast struct {
	Station  NearestStationResult `json:"station"`
	Forecast WeatherForecast      `json:"forecast"`
}
