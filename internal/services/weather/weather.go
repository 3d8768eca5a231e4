package weather

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"

	"mosmix-api/internal/geo"
	"mosmix-api/internal/models"
	"mosmix-api/internal/repositories"
	"mosmix-api/internal/stations"
	"mosmix-api/internal/timezone"
	"mosmix-api/pkg/logger"
)

// WeatherService resolves locations to stations and fetches their forecasts.
type WeatherService struct {
	forecasts repositories.ForecastRepository
	cache     *StationCache
	zones     timezone.Service
	latest    *latestRequests
	l         *logger.Logger
}

// NewWeatherService wires the service. zones may be nil, in which case
// resolved stations carry no time zone.
func NewWeatherService(repos repositories.Repositories, zones timezone.Service, cache CacheOptions, l *logger.Logger) *WeatherService {
	return &WeatherService{
		forecasts: repos.Forecasts,
		cache:     NewStationCache(repos.Catalog.FetchStations, cache),
		zones:     zones,
		latest:    newLatestRequests(),
		l:         l,
	}
}

// catalog returns the shared station snapshot. A failed reload falls back to
// the previous catalog; the error is only returned when ctx ended or nothing
// is held.
func (s *WeatherService) catalog(ctx context.Context) ([]models.Station, error) {
	list, err := s.cache.Get(ctx)
	if err == nil {
		return list, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if len(list) > 0 {
		s.l.Warning("station catalog reload failed, serving previous catalog", map[string]any{
			"err":      err.Error(),
			"stations": len(list),
		})
		return list, nil
	}
	return nil, err
}

// Stations returns a copy of the loaded catalog. A failed load yields an
// empty list.
func (s *WeatherService) Stations(ctx context.Context) []models.Station {
	list, err := s.catalog(ctx)
	if err != nil {
		s.l.Warning("station catalog unavailable, serving empty list", map[string]any{"err": err.Error()})
		return []models.Station{}
	}
	return slices.Clone(list)
}

// Warmup loads the catalog ahead of the first request.
func (s *WeatherService) Warmup(ctx context.Context) {
	list, err := s.cache.Get(ctx)
	if err != nil {
		s.l.Error(errors.Wrap(err, "catalog warmup"))
		return
	}
	s.l.Info("station catalog loaded", map[string]any{"stations": len(list)})
}

// Ready reports whether a catalog has been loaded at least once.
func (s *WeatherService) Ready() bool {
	return s.cache.Loads() > 0
}

func (s *WeatherService) SearchStations(ctx context.Context, query string) []models.Station {
	return stations.Search(s.Stations(ctx), query)
}

func (s *WeatherService) MajorStations(ctx context.Context) []models.Station {
	return stations.MajorStations(s.Stations(ctx))
}

// ResolveNearestStation returns nil when no stations are available.
func (s *WeatherService) ResolveNearestStation(ctx context.Context, point models.GeoPoint) *models.NearestStationResult {
	res, _, err := s.resolve(ctx, point)
	if err != nil {
		s.l.Warning("cannot resolve nearest station", map[string]any{"err": err.Error()})
		return nil
	}
	return res
}

// resolve fails with the context error when ctx ended, with the catalog
// error when no catalog could be loaded and with models.ErrNoStations when
// the loaded catalog is empty.
func (s *WeatherService) resolve(ctx context.Context, point models.GeoPoint) (*models.NearestStationResult, *time.Location, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	res, ok := geo.Nearest(point, all)
	if !ok {
		s.l.Warning("no stations to resolve against", map[string]any{"point": point.String()})
		return nil, nil, models.ErrNoStations
	}

	var loc *time.Location
	if station, found := stations.FindByID(all, res.StationID); found {
		loc = s.location(station)
		if loc != nil {
			res.TimeZone = loc.String()
		}
	}

	s.l.Debug("resolved nearest station", map[string]any{
		"point":       point.String(),
		"station":     res.StationID,
		"distance_km": res.DistanceKm,
	})

	return &res, loc, nil
}

func (s *WeatherService) location(station models.Station) *time.Location {
	if s.zones == nil {
		return nil
	}
	loc, err := s.zones.Lookup(station.Latitude, station.Longitude)
	if err != nil {
		s.l.Debug("no time zone for station", map[string]any{"station": station.ID, "err": err.Error()})
		return nil
	}
	return loc
}

// GetForecast fetches the forecast of stationID. Failures are
// *models.FetchError values of kind ErrForecastUnavailable or
// ErrForecastMalformed.
func (s *WeatherService) GetForecast(ctx context.Context, stationID string) (models.WeatherForecast, error) {
	s.l.Info("starting forecast fetch", map[string]any{
		"station":    stationID,
		"repository": s.forecasts.Name(),
	})

	f, err := s.forecasts.FetchForecast(ctx, stationID)
	if err != nil {
		s.l.Error(err, map[string]any{"station_id": stationID})
		return models.WeatherForecast{}, errors.Wrapf(err, "fetch forecast for station %s", stationID)
	}

	s.l.Info("successfully fetched forecast", map[string]any{"params": f.Summary()})
	return f, nil
}

// ForecastForLocation resolves point and fetches the winning station's
// forecast. Requests sharing a non-empty sessionKey follow last-request-wins:
// a newer one cancels the older, and an older one that still completes
// returns models.ErrSuperseded.
func (s *WeatherService) ForecastForLocation(ctx context.Context, sessionKey string, point models.GeoPoint) (models.LocationForecast, error) {
	superseded := func() bool { return false }
	if sessionKey != "" {
		var (
			seq  uint64
			done func()
		)
		ctx, seq, done = s.latest.begin(ctx, sessionKey)
		defer done()
		superseded = func() bool { return !s.latest.isLatest(sessionKey, seq) }
	}

	station, loc, err := s.resolve(ctx, point)
	if superseded() {
		return models.LocationForecast{}, models.ErrSuperseded
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, models.ErrCatalogUnavailable) {
			// no catalog to resolve against
			return models.LocationForecast{}, errors.WithMessage(models.ErrNoStations, err.Error())
		}
		return models.LocationForecast{}, err
	}

	f, err := s.GetForecast(ctx, station.StationID)
	if superseded() {
		s.l.Info("dropping superseded forecast", map[string]any{
			"session": sessionKey,
			"station": station.StationID,
		})
		return models.LocationForecast{}, models.ErrSuperseded
	}
	if err != nil {
		return models.LocationForecast{}, err
	}

	return models.LocationForecast{Station: *station, Forecast: f.InLocation(loc)}, nil
}
