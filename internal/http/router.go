// Package httpapi assembles the Fiber application: middleware, routes and
// the error mapping shared by every handler.
package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/http/handlers"
	applog "fakestore-ingestor/internal/log"
)

type Options struct {
	// ImportRateLimit caps imports per client per minute; 0 disables it.
	ImportRateLimit int
}

func NewApp(deps *handlers.Deps, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "fakestore-ingestor",
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(applog.Middleware())
	app.Use(recover.New())
	app.Use(helmet.New())

	app.Get("/health", deps.HealthHandler.Health)

	importChain := []fiber.Handler{}
	if opts.ImportRateLimit > 0 {
		importChain = append(importChain, limiter.New(limiter.Config{
			Max:        opts.ImportRateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|import"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.import.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}
	app.Post("/import/:count?", append(importChain, deps.ImportHandler.Import)...)

	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:id<int>", deps.ProductHandler.Detail)

	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("not found")
	})
	return app
}

// ErrorHandler renders every error as {"error": message}. Errors that are not
// typed get a generic message so internals never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		return c.Status(ae.HTTPStatus()).JSON(fiber.Map{"error": ae.Message})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
}
