package server

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"contactuse/internal/core/search"
	"contactuse/internal/health"
	"contactuse/internal/logger"
)

type Dependencies struct {
	Search *search.Service
	Health *health.HealthHandler
}

// New builds the HTTP app: any origin may call the API, panics become 500s
// and every request is logged.
func New(d Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Contact-Use API",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return bytes.TrimRight(buf.Bytes(), "\n"), nil
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowHeaders: "*",
	}))
	app.Use(requestLogger(logger.New("HTTP")))

	RegisterRoutes(app, d)
	return app
}

func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", d.Health.HandleHealth)
	app.Get("/health/ready", d.Health.HandleReady)

	search.NewHandler(d.Search).Register(app.Group("/api"))
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
