package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosmix-api/internal/catalog"
	v1 "mosmix-api/internal/controllers/http/v1"
	"mosmix-api/internal/models"
	"mosmix-api/internal/repositories"
	"mosmix-api/internal/services/weather"
	"mosmix-api/pkg/httpserver"
	"mosmix-api/pkg/logger"
)

const catalogText = `ID    ICAO NAME                 LAT    LON     ELEV
10147 EDDH HAMBURG-FUHLSBUETTEL 53.63   9.99   11
10184 ---- GREIFSWALD           54.06  13.24    5
10385 EDDB BERLIN-SCHOENEFELD   52.38  13.52   47
`

type mockCatalog struct {
	empty bool
}

func (m *mockCatalog) FetchStations(ctx context.Context) ([]models.Station, error) {
	if m.empty {
		return nil, &models.FetchError{Kind: models.ErrCatalogUnavailable, StatusCode: 503}
	}
	return catalog.Parse(catalogText), nil
}

type mockForecasts struct {
	errs    map[string]error
	block   map[string]chan struct{}
	started chan string
}

func (m *mockForecasts) Name() string {
	return "mock"
}

func (m *mockForecasts) FetchForecast(ctx context.Context, stationID string) (models.WeatherForecast, error) {
	if m.started != nil {
		m.started <- stationID
	}
	if release, ok := m.block[stationID]; ok {
		<-release
	}
	if err, ok := m.errs[stationID]; ok {
		return models.WeatherForecast{}, err
	}
	return models.WeatherForecast{
		StationID:   stationID,
		StationName: "station " + stationID,
		Days:        []models.ForecastDay{{Date: "2025-07-25", Icon: 2, Temperature: 21.3}},
		Hourly:      []models.HourlyForecast{},
	}, nil
}

func newApp(cat *mockCatalog, fc *mockForecasts) *fiber.App {
	app := httpserver.InitFiberServer(httpserver.Options{AppName: "test-app"})
	repos := repositories.Repositories{Catalog: cat, Forecasts: fc}
	service := weather.NewWeatherService(repos, nil, weather.CacheOptions{}, logger.NewZapLogger("test-app", io.Discard))
	v1.NewRouter(app, service, logger.NewZapLogger("test-app", io.Discard))
	return app
}

func get(t *testing.T, app *fiber.App, target string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestSearchStations(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query lists all", query: "", want: []string{"10147", "10184", "10385"}},
		{name: "name is case insensitive", query: "?q=greifs", want: []string{"10184"}},
		{name: "icao", query: "?q=eddb", want: []string{"10385"}},
		{name: "placeholder icao never matches", query: "?q=----", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, "/v1/stations"+tt.query, nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var got v1.StationsResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, len(tt.want), got.Count)

			ids := make([]string, 0, len(got.Stations))
			for _, s := range got.Stations {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMajorStations(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, body := get(t, app, "/v1/stations/major", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got v1.StationsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 3, got.Count)
}

func TestStationsCatalogUnavailable(t *testing.T) {
	app := newApp(&mockCatalog{empty: true}, &mockForecasts{})

	resp, body := get(t, app, "/v1/stations", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":0,"stations":[]}`, string(body))

	resp, body = get(t, app, "/v1/stations/nearest?lat=53.5&lon=10", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"no_stations"`)
}

func TestNearestStation(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, body := get(t, app, "/v1/stations/nearest?lat=53.5&lon=10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.NearestStationResult
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "10147", got.StationID)
	assert.Equal(t, "HAMBURG-FUHLSBUETTEL", got.StationName)
	assert.Less(t, got.DistanceKm, 15.0)
}

func TestNearestStationValidation(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{name: "missing lat", query: "?lon=10", message: "Missing required parameter: lat"},
		{name: "missing lon", query: "?lat=53", message: "Missing required parameter: lon"},
		{name: "invalid lat", query: "?lat=north&lon=10", message: "Invalid latitude format"},
		{name: "invalid lon", query: "?lat=53&lon=east", message: "Invalid longitude format"},
		{name: "lat out of range", query: "?lat=91&lon=10", message: "latitude must be between -90 and 90"},
		{name: "lon out of range", query: "?lat=53&lon=-181", message: "longitude must be between -180 and 180"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, "/v1/stations/nearest"+tt.query, nil)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var got v1.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Contains(t, got.Error, tt.message)
			assert.Equal(t, "bad_request", got.Code)
		})
	}
}

func TestStationForecast(t *testing.T) {
	fc := &mockForecasts{errs: map[string]error{
		"00000": &models.FetchError{Kind: models.ErrForecastUnavailable, StationID: "00000", StatusCode: 404},
		"11111": &models.FetchError{Kind: models.ErrForecastMalformed, StationID: "11111"},
	}}
	app := newApp(&mockCatalog{}, fc)

	tests := []struct {
		name      string
		stationID string
		status    int
		code      string
	}{
		{name: "ok", stationID: "10147", status: fiber.StatusOK},
		{name: "upstream unavailable", stationID: "00000", status: fiber.StatusBadGateway, code: "forecast_unavailable"},
		{name: "malformed payload", stationID: "11111", status: fiber.StatusBadGateway, code: "forecast_malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, "/v1/forecast/"+tt.stationID, nil)
			require.Equal(t, tt.status, resp.StatusCode)

			if tt.code == "" {
				var got models.WeatherForecast
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, tt.stationID, got.StationID)
				assert.Len(t, got.Days, 1)
				return
			}

			var got v1.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestLocationForecast(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, body := get(t, app, "/v1/forecast?lat=54&lon=13.3", map[string]string{v1.SessionHeader: "abc"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", resp.Header.Get(v1.SessionHeader))

	var got models.LocationForecast
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "10184", got.Station.StationID)
	assert.Equal(t, "10184", got.Forecast.StationID)
}

func TestLocationForecastGeneratesSession(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, _ := get(t, app, "/v1/forecast?lat=54&lon=13.3", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err := uuid.Parse(resp.Header.Get(v1.SessionHeader))
	assert.NoError(t, err)
}

func TestLocationForecastNoStations(t *testing.T) {
	app := newApp(&mockCatalog{empty: true}, &mockForecasts{})

	resp, body := get(t, app, "/v1/forecast?lat=54&lon=13.3", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"no_stations"`)
}

func TestLocationForecastSuperseded(t *testing.T) {
	release := make(chan struct{})
	fc := &mockForecasts{
		block:   map[string]chan struct{}{"10147": release},
		started: make(chan string, 2),
	}
	app := newApp(&mockCatalog{}, fc)
	headers := map[string]string{v1.SessionHeader: "session-1"}

	older := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/forecast?lat=53.5&lon=10", nil)
		req.Header.Set(v1.SessionHeader, "session-1")
		resp, err := app.Test(req, -1)
		if err != nil {
			older <- 0
			return
		}
		resp.Body.Close()
		older <- resp.StatusCode
	}()
	require.Equal(t, "10147", <-fc.started)

	resp, _ := get(t, app, "/v1/forecast?lat=54&lon=13.3", headers)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	<-fc.started

	close(release)
	select {
	case status := <-older:
		assert.Equal(t, fiber.StatusConflict, status)
	case <-time.After(2 * time.Second):
		t.Fatal("older request did not finish")
	}
}

func TestSwaggerDoc(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swagger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"swagger":"2.0"}`), 0o600))

	prev := v1.SwaggerPath
	v1.SwaggerPath = path
	t.Cleanup(func() { v1.SwaggerPath = prev })

	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, body := get(t, app, "/swagger/doc.json", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"swagger":"2.0"}`, string(body))

	v1.SwaggerPath = filepath.Join(dir, "missing.json")
	resp, _ = get(t, app, "/swagger/doc.json", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app := newApp(&mockCatalog{}, &mockForecasts{})

	resp, _ := get(t, app, "/manage/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = get(t, app, "/manage/ready", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
