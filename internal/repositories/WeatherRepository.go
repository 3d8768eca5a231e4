package repositories

import (
	"context"
	"net/http"

	"mosmix-api/config"
	"mosmix-api/internal/forecast"
	"mosmix-api/internal/models"
	"mosmix-api/pkg/httpclient"
	"mosmix-api/pkg/logger"
)

// HTTPClient is satisfied by *http.Client and *httpclient.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CatalogRepository loads the MOSMIX station catalog.
type CatalogRepository interface {
	FetchStations(ctx context.Context) ([]models.Station, error)
}

// ForecastRepository loads the normalized forecast of a single station.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, stationID string) (models.WeatherForecast, error)
}

type Repositories struct {
	Catalog   CatalogRepository
	Forecasts ForecastRepository
}

func InitRepositories(cfg *config.Config, l *logger.Logger) (Repositories, error) {
	version, err := forecast.ParseSchemaVersion(cfg.Upstream.SchemaVersion)
	if err != nil {
		return Repositories{}, err
	}

	client := httpclient.New(httpclient.Config{
		Timeout:           cfg.Upstream.Timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
		MaxRetries:        cfg.Upstream.MaxRetries,
		RetryBackoff:      cfg.Upstream.RetryBackoff,
	})

	return Repositories{
		Catalog:   NewDWDCatalogRepository(cfg.Upstream.CatalogURL, client, l),
		Forecasts: NewWarnwetterRepository(cfg.Upstream.ForecastBaseURL, version, client, l),
	}, nil
}
