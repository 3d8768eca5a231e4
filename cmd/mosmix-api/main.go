package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mosmix-api/config"
	v1 "mosmix-api/internal/controllers/http/v1"
	"mosmix-api/internal/repositories"
	"mosmix-api/internal/services/weather"
	"mosmix-api/internal/timezone"
	"mosmix-api/pkg/httpserver"
	"mosmix-api/pkg/logger"
	"mosmix-api/pkg/observe"
)

// @title MOSMIX Forecast API
// @version 1.0.0
// @description Station lookup and point forecasts backed by the DWD MOSMIX station catalog and WarnWetter forecast feed.
// @description Stations are resolved by great-circle distance; forecasts are normalized to Celsius, millimetres and km/h.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Stations
// @tag.description Station catalog queries
// @tag.name Forecast
// @tag.description Normalized MOSMIX forecasts
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	writers := []io.Writer{os.Stdout}
	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.Debug, cnf.Sentry.DSN)
		writers = append(writers, hook)
	}

	l := logger.New(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   cnf.Log.Level,
		Format:  cnf.Log.Format,
	}, writers...)
	if hook != nil {
		hook.SetLogger(l)
	}

	repos, err := repositories.InitRepositories(cnf, l)
	if err != nil {
		l.Fatal("cannot init repositories", map[string]any{"err": err.Error()})
	}

	var zones timezone.Service
	if cnf.Timezone.Enabled {
		if zones, err = timezone.NewService(); err != nil {
			l.Warning("timezone lookup disabled", map[string]any{"err": err.Error()})
			zones = nil
		}
	}

	service := weather.NewWeatherService(repos, zones, weather.CacheOptions{
		TTL:         cnf.Cache.StationTTL,
		LoadTimeout: cnf.Cache.LoadTimeout,
	}, l)
	go service.Warmup(ctx)

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  cnf.Server.ReadTimeout,
		WriteTimeout: cnf.Server.WriteTimeout,
		IdleTimeout:  cnf.Server.IdleTimeout,
		Quiet:        !cnf.IsDevelopment(),
		Ready:        service.Ready,
	})

	v1.NewRouter(
		app,
		service,
		l,
	)

	go func() {
		if err := app.Listen(cnf.Addr()); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"version": cnf.App.Version,
		"schema":  cnf.Upstream.SchemaVersion,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
