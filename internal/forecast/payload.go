package forecast

// dayPayload is a daily entry as published by warnwetter. All measurements
// are optional.
type dayPayload struct {
	DayDate        string   `json:"dayDate"`
	Icon1          *float64 `json:"icon1"`
	Icon           *float64 `json:"icon"`
	Temperature    *float64 `json:"temperature"`
	TemperatureMin *float64 `json:"temperatureMin"`
	TemperatureMax *float64 `json:"temperatureMax"`
	Precipitation  *float64 `json:"precipitation"`
	WindSpeed      *float64 `json:"windSpeed"`
	Humidity       *float64 `json:"humidity"`
}

// LegacyPayload is the Shape A document: final units, no hourly series.
type LegacyPayload struct {
	StationName string       `json:"stationName"`
	Days        []dayPayload `json:"days"`
}

// CurrentPayload is the Shape B document: tenths of units and an hourly
// series stored as parallel arrays indexed by hour offset from Start.
type CurrentPayload struct {
	StationName string         `json:"stationName"`
	Days        []dayPayload   `json:"days"`
	Forecast    *hourlyPayload `json:"forecast"`
}

type hourlyPayload struct {
	Start              int64      `json:"start"`
	Temperature        []*float64 `json:"temperature"`
	PrecipitationTotal []*float64 `json:"precipitationTotal"`
	WindSpeed          []*float64 `json:"windSpeed"`
	Icon               []*float64 `json:"icon"`
}
