// Package forecast maps warnwetter MOSMIX payloads onto models.WeatherForecast.
package forecast

import (
	"encoding/json"
	"time"

	"mosmix-api/internal/models"
)

const (
	defaultIcon = 1
	hourMillis  = int64(time.Hour / time.Millisecond)
	// m/s to km/h
	msToKmh = 3.6
)

// units converts raw payload values into °C, mm and km/h.
type units struct {
	temperature   func(float64) float64
	precipitation func(float64) float64
	windSpeed     func(float64) float64
}

var (
	legacyUnits = units{
		temperature:   identity,
		precipitation: identity,
		windSpeed:     identity,
	}
	currentUnits = units{
		temperature:   tenths,
		precipitation: tenths,
		windSpeed:     func(v float64) float64 { return tenths(v) * msToKmh },
	}
)

func identity(v float64) float64 { return v }

func tenths(v float64) float64 { return v / 10 }

// Normalize decodes body according to version and returns the unified
// forecast. A decode failure is reported as a *models.FetchError of kind
// models.ErrForecastMalformed; missing fields are defaulted, never errors.
func Normalize(stationID string, body []byte, version SchemaVersion) (models.WeatherForecast, error) {
	if version == Auto {
		detected, err := detect(body)
		if err != nil {
			return models.WeatherForecast{}, malformed(stationID, err)
		}
		version = detected
	}

	switch version {
	case Legacy:
		var p LegacyPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return models.WeatherForecast{}, malformed(stationID, err)
		}
		return p.normalize(stationID), nil
	default:
		var p CurrentPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return models.WeatherForecast{}, malformed(stationID, err)
		}
		return p.normalize(stationID), nil
	}
}

func malformed(stationID string, err error) error {
	return &models.FetchError{
		Kind:      models.ErrForecastMalformed,
		StationID: stationID,
		Err:       err,
	}
}

func (p LegacyPayload) normalize(stationID string) models.WeatherForecast {
	return models.WeatherForecast{
		StationID:   stationID,
		StationName: stationName(p.StationName),
		Days:        normalizeDays(p.Days, legacyUnits),
		Hourly:      []models.HourlyForecast{},
	}
}

func (p CurrentPayload) normalize(stationID string) models.WeatherForecast {
	return models.WeatherForecast{
		StationID:   stationID,
		StationName: stationName(p.StationName),
		Days:        normalizeDays(p.Days, currentUnits),
		Hourly:      normalizeHourly(p.Forecast, currentUnits),
	}
}

func stationName(name string) string {
	if name == "" {
		return models.UnknownStationName
	}
	return name
}

func normalizeDays(days []dayPayload, u units) []models.ForecastDay {
	out := make([]models.ForecastDay, 0, len(days))
	for _, d := range days {
		icon := iconCode(d.Icon1, d.Icon)

		// temperatureMax is the representative value, 0 when nothing is known
		var temperature float64
		switch {
		case d.TemperatureMax != nil:
			temperature = u.temperature(*d.TemperatureMax)
		case d.Temperature != nil:
			temperature = u.temperature(*d.Temperature)
		}

		out = append(out, models.ForecastDay{
			Date:           d.DayDate,
			Icon:           icon,
			Description:    models.IconDescription(icon),
			Temperature:    temperature,
			TemperatureMin: convert(d.TemperatureMin, u.temperature),
			TemperatureMax: convert(d.TemperatureMax, u.temperature),
			Precipitation:  convert(d.Precipitation, u.precipitation),
			WindSpeed:      convert(d.WindSpeed, u.windSpeed),
			Humidity:       convert(d.Humidity, identity),
		})
	}
	return out
}

func normalizeHourly(h *hourlyPayload, u units) []models.HourlyForecast {
	if h == nil {
		return []models.HourlyForecast{}
	}

	n := min(len(h.Temperature), models.MaxHourlyEntries)
	out := make([]models.HourlyForecast, 0, n)
	for i := 0; i < n; i++ {
		icon := iconCode(at(h.Icon, i))
		out = append(out, models.HourlyForecast{
			Time:          time.UnixMilli(h.Start + int64(i)*hourMillis).UTC(),
			Temperature:   valueOrZero(at(h.Temperature, i), u.temperature),
			Precipitation: valueOrZero(at(h.PrecipitationTotal, i), u.precipitation),
			WindSpeed:     valueOrZero(at(h.WindSpeed, i), u.windSpeed),
			Icon:          icon,
			Description:   models.IconDescription(icon),
		})
	}
	return out
}

// iconCode returns the first present positive code, defaulting to clear sky.
func iconCode(candidates ...*float64) int {
	for _, c := range candidates {
		if c != nil && int(*c) > 0 {
			return int(*c)
		}
	}
	return defaultIcon
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func convert(v *float64, f func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	out := f(*v)
	return &out
}

func valueOrZero(v *float64, f func(float64) float64) float64 {
	if v == nil {
		return 0
	}
	return f(*v)
}
