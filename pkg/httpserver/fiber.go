package httpserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Options struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// Quiet suppresses the fiber startup banner.
	Quiet bool
	// Ready backs the readiness endpoint. Nil means always ready.
	Ready func() bool
}

func InitFiberServer(opts Options) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,

		DisableStartupMessage: opts.Quiet,
		// the API only serves GETs
		BodyLimit: 64 * 1024,
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(cors.New(cors.Config{
		ExposeHeaders: "X-Session-ID",
	}))
	hc := healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}
	if opts.Ready != nil {
		hc.ReadinessProbe = func(*fiber.Ctx) bool { return opts.Ready() }
	}
	s.Use(healthcheck.New(hc))

	return s
}
