package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "productadder/internal/log"
	"productadder/internal/metrics"
)

// MaxUploadBytes bounds a request carrying picked images.
const MaxUploadBytes = 32 << 20

// NewApp builds the fiber app with middlewares and every route mounted.
func NewApp(d *Deps, views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:     views,
		BodyLimit: MaxUploadBytes,
		// Draft ids and form values are handed to background picks and saves.
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < 500 {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics" || strings.HasPrefix(p, "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	Mount(app, d)
	return app
}

func Mount(app *fiber.App, d *Deps) {
	app.Get("/", d.ProductHandler.Form)

	api := app.Group("/api/v1")
	api.Post("/drafts", d.DraftHandler.Create)
	api.Get("/drafts/:id", d.DraftHandler.Show)
	api.Delete("/drafts/:id", d.DraftHandler.Delete)
	api.Post("/drafts/:id/images", d.DraftHandler.AddImages)
	api.Post("/drafts/:id/colors", d.DraftHandler.AddColor)
	api.Post("/drafts/:id/pickers", d.DraftHandler.StartPick)
	api.Post("/drafts/:id/save", d.DraftHandler.Save)

	api.Post("/pickers/:token/images", d.PickerHandler.Images)
	api.Post("/pickers/:token/colors", d.PickerHandler.Colors)
	api.Delete("/pickers/:token", d.PickerHandler.Cancel)

	api.Get("/products/:id", d.ProductHandler.Detail)

	if d.MediaDir != "" {
		app.Get("/media/*", media(d.MediaDir))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}
