package repositories

import (
	"context"
	"fmt"
	"net/http"

	"mosmix-api/internal/catalog"
	"mosmix-api/internal/models"
	"mosmix-api/pkg/logger"
)

type DWDCatalogRepository struct {
	URL        string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewDWDCatalogRepository(url string, httpClient HTTPClient, l *logger.Logger) *DWDCatalogRepository {
	return &DWDCatalogRepository{
		URL:        url,
		httpClient: httpClient,
		l:          l,
	}
}

// FetchStations downloads and parses the catalog. Malformed lines are
// skipped; transport failures and non-200 responses return a
// *models.FetchError of kind models.ErrCatalogUnavailable.
func (d *DWDCatalogRepository) FetchStations(ctx context.Context) ([]models.Station, error) {
	d.l.Info("making station catalog request", map[string]any{"url": d.URL})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Kind: models.ErrCatalogUnavailable, Err: err}
	}
	defer resp.Body.Close()

	d.l.Info("received station catalog response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &models.FetchError{Kind: models.ErrCatalogUnavailable, StatusCode: resp.StatusCode}
	}

	scanner := catalog.NewScanner(resp.Body)
	stations := make([]models.Station, 0, 6000)
	for scanner.Scan() {
		stations = append(stations, scanner.Station())
	}
	if err := scanner.Err(); err != nil {
		return nil, &models.FetchError{Kind: models.ErrCatalogUnavailable, Err: err}
	}

	d.l.Info("parsed station catalog", map[string]any{
		"stations": len(stations),
		"skipped":  scanner.Skipped(),
	})

	return stations, nil
}
