package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"mosmix-api/internal/services/weather"
	"mosmix-api/pkg/logger"
)

// SwaggerPath is where the OpenAPI document is read from, relative to the
// working directory.
var SwaggerPath = "docs/swagger.json"

type routes struct {
	service *weather.WeatherService
	l       *logger.Logger
}

func NewRouter(
	app *fiber.App,
	weatherService *weather.WeatherService,
	l *logger.Logger,
) {
	r := &routes{
		service: weatherService,
		l:       l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile(SwaggerPath)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Failed to read Swagger documentation",
				Code:  codeInternal,
			})
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	api := app.Group("/v1")

	api.Get("/stations", r.handleSearchStations)
	api.Get("/stations/major", r.handleMajorStations)
	api.Get("/stations/nearest", r.handleNearestStation)

	api.Get("/forecast", r.handleLocationForecast)
	api.Get("/forecast/:stationId", r.handleStationForecast)
}
