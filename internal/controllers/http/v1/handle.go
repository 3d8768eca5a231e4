package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"mosmix-api/internal/models"
)

// SessionHeader scopes last-request-wins for location forecasts.
const SessionHeader = "X-Session-ID"

const (
	codeBadRequest          = "bad_request"
	codeNoStations          = "no_stations"
	codeForecastUnavailable = "forecast_unavailable"
	codeForecastMalformed   = "forecast_malformed"
	codeSuperseded          = "superseded"
	codeCanceled            = "canceled"
	codeInternal            = "internal"
)

// StationsResponse represents a list of catalog stations
type StationsResponse struct {
	Count    int              `json:"count" example:"1"`
	Stations []models.Station `json:"stations"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
	Code  string `json:"code" example:"bad_request"`
}

// handleSearchStations godoc
// @Summary Search stations
// @Description Case-insensitive substring search over station name, id and ICAO code. An empty query lists the whole catalog.
// @Tags Stations
// @Produce json
// @Param q query string false "Search text" example(hamburg)
// @Success 200 {object} StationsResponse "Matching stations"
// @Router /v1/stations [get]
func (r *routes) handleSearchStations(c *fiber.Ctx) error {
	found := r.service.SearchStations(c.Context(), c.Query("q"))
	return c.JSON(StationsResponse{Count: len(found), Stations: found})
}

// handleMajorStations godoc
// @Summary List major stations
// @Description Stations located in large German cities, at most 50.
// @Tags Stations
// @Produce json
// @Success 200 {object} StationsResponse "Major stations"
// @Router /v1/stations/major [get]
func (r *routes) handleMajorStations(c *fiber.Ctx) error {
	found := r.service.MajorStations(c.Context())
	return c.JSON(StationsResponse{Count: len(found), Stations: found})
}

// handleNearestStation godoc
// @Summary Resolve nearest station
// @Description Finds the catalog station closest to a coordinate by great-circle distance.
// @Tags Stations
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(53.55)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(9.99)
// @Success 200 {object} models.NearestStationResult "Nearest station"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "No stations available"
// @Router /v1/stations/nearest [get]
func (r *routes) handleNearestStation(c *fiber.Ctx) error {
	point, err := parsePoint(c)
	if err != nil {
		return badRequest(c, err)
	}

	res := r.service.ResolveNearestStation(c.Context(), point)
	if res == nil {
		return r.fail(c, models.ErrNoStations, nil)
	}
	return c.JSON(res)
}

// handleStationForecast godoc
// @Summary Get station forecast
// @Description Fetches and normalizes the MOSMIX forecast of one station.
// @Tags Forecast
// @Produce json
// @Param stationId path string true "Station id" example(10147)
// @Success 200 {object} models.WeatherForecast "Normalized forecast"
// @Failure 502 {object} ErrorResponse "Upstream unavailable or malformed"
// @Router /v1/forecast/{stationId} [get]
func (r *routes) handleStationForecast(c *fiber.Ctx) error {
	stationID := c.Params("stationId")

	f, err := r.service.GetForecast(c.Context(), stationID)
	if err != nil {
		return r.fail(c, err, map[string]any{"station_id": stationID})
	}
	return c.JSON(f)
}

// handleLocationForecast godoc
// @Summary Get forecast for a location
// @Description Resolves the nearest station and returns its forecast. Requests sharing an X-Session-ID follow last-request-wins: an older request answered after a newer one fails with 409.
// @Tags Forecast
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(53.55)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(9.99)
// @Param X-Session-ID header string false "Session key, generated when absent"
// @Success 200 {object} models.LocationForecast "Station and forecast"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "No stations available"
// @Failure 409 {object} ErrorResponse "Superseded by a newer request"
// @Failure 502 {object} ErrorResponse "Upstream unavailable or malformed"
// @Router /v1/forecast [get]
func (r *routes) handleLocationForecast(c *fiber.Ctx) error {
	// the key outlives the request buffer
	session := utils.CopyString(c.Get(SessionHeader))
	if session == "" {
		session = uuid.NewString()
	}
	c.Set(SessionHeader, session)

	point, err := parsePoint(c)
	if err != nil {
		return badRequest(c, err)
	}

	res, err := r.service.ForecastForLocation(c.Context(), session, point)
	if err != nil {
		return r.fail(c, err, map[string]any{"session": session, "point": point.String()})
	}
	return c.JSON(res)
}

func parsePoint(c *fiber.Ctx) (models.GeoPoint, error) {
	lat := c.Query("lat")
	lon := c.Query("lon")

	// Check for required parameters
	if lat == "" {
		return models.GeoPoint{}, errors.New("Missing required parameter: lat")
	}
	if lon == "" {
		return models.GeoPoint{}, errors.New("Missing required parameter: lon")
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return models.GeoPoint{}, errors.New("Invalid latitude format")
	}
	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return models.GeoPoint{}, errors.New("Invalid longitude format")
	}

	point := models.GeoPoint{Latitude: latFloat, Longitude: lonFloat}
	if err := point.Validate(); err != nil {
		return models.GeoPoint{}, err
	}
	return point, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: err.Error(),
		Code:  codeBadRequest,
	})
}

// fail maps service errors to HTTP responses.
func (r *routes) fail(c *fiber.Ctx, err error, fields map[string]any) error {
	status, resp := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		r.l.Error(err, fields)
	} else {
		r.l.Info("request rejected", map[string]any{"code": resp.Code, "err": err.Error()})
	}
	return c.Status(status).JSON(resp)
}

func errorResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrSuperseded):
		return fiber.StatusConflict, ErrorResponse{Error: "Request superseded by a newer one", Code: codeSuperseded}
	case errors.Is(err, models.ErrNoStations):
		return fiber.StatusNotFound, ErrorResponse{Error: "No stations available", Code: codeNoStations}
	case errors.Is(err, models.ErrForecastMalformed):
		return fiber.StatusBadGateway, ErrorResponse{Error: "Forecast payload could not be read", Code: codeForecastMalformed}
	case errors.Is(err, models.ErrForecastUnavailable):
		return fiber.StatusBadGateway, ErrorResponse{Error: "Forecast unavailable", Code: codeForecastUnavailable}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, ErrorResponse{Error: "Request canceled", Code: codeCanceled}
	default:
		return fiber.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: codeInternal}
	}
}
