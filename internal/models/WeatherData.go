package models

import "time"

// ForecastDay is one normalized daily entry. Temperatures are in °C,
// precipitation in mm and wind speed in km/h.
type ForecastDay struct {
	Date           string   `json:"date" example:"2025-07-25"`
	Icon           int      `json:"icon" example:"2"`
	Description    string   `json:"description" example:"Sonne, leicht bewölkt"`
	Temperature    float64  `json:"temperature" example:"20.5"`
	TemperatureMin *float64 `json:"temperature_min,omitempty" example:"11.2"`
	TemperatureMax *float64 `json:"temperature_max,omitempty" example:"20.5"`
	Precipitation  *float64 `json:"precipitation,omitempty" example:"0.4"`
	WindSpeed      *float64 `json:"wind_speed,omitempty" example:"18"`
	Humidity       *float64 `json:"humidity,omitempty" example:"71"`
}

// HourlyForecast is one entry of the optional hourly series.
type HourlyForecast struct {
	Time          time.Time `json:"time" example:"2025-07-25T14:00:00Z"`
	Temperature   float64   `json:"temperature" example:"19.3"`
	Precipitation float64   `json:"precipitation" example:"0"`
	WindSpeed     float64   `json:"wind_speed" example:"12.6"`
	Icon          int       `json:"icon" example:"1"`
	Description   string    `json:"description" example:"Sonnig"`
}
