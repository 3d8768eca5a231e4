package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mosmix-api/internal/forecast"
	"mosmix-api/internal/models"
	"mosmix-api/pkg/logger"
)

type WarnwetterRepository struct {
	BaseURL    string
	version    forecast.SchemaVersion
	httpClient HTTPClient
	l          *logger.Logger
}

func NewWarnwetterRepository(baseURL string, version forecast.SchemaVersion, httpClient HTTPClient, l *logger.Logger) *WarnwetterRepository {
	return &WarnwetterRepository{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		httpClient: httpClient,
		l:          l,
	}
}

func (w *WarnwetterRepository) Name() string {
	return "warnwetter-" + string(w.version)
}

func (w *WarnwetterRepository) forecastURL(stationID string) string {
	return fmt.Sprintf("%s/forecast_mosmix_%s.json", w.BaseURL, url.PathEscape(stationID))
}

// FetchForecast downloads and normalizes the forecast of stationID.
func (w *WarnwetterRepository) FetchForecast(ctx context.Context, stationID string) (models.WeatherForecast, error) {
	u := w.forecastURL(stationID)

	w.l.Info("making warnwetter API request", map[string]any{
		"station": stationID,
		"schema":  w.version,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.WeatherForecast{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return models.WeatherForecast{}, w.unavailable(stationID, 0, err)
	}
	defer resp.Body.Close()

	w.l.Info("received warnwetter API response", map[string]any{
		"station":    stationID,
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return models.WeatherForecast{}, w.unavailable(stationID, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherForecast{}, w.unavailable(stationID, 0, fmt.Errorf("failed to read response body: %w", err))
	}

	result, err := forecast.Normalize(stationID, body, w.version)
	if err != nil {
		return models.WeatherForecast{}, err
	}

	w.l.Info("parsed warnwetter API response", map[string]any{
		"params": result.Summary(),
	})

	return result, nil
}

func (w *WarnwetterRepository) unavailable(stationID string, status int, err error) error {
	return &models.FetchError{
		Kind:       models.ErrForecastUnavailable,
		StationID:  stationID,
		StatusCode: status,
		Err:        err,
	}
}
