package handler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/config"
	"attachapi/internal/form"
	"attachapi/internal/http/middleware"
	"attachapi/internal/service"
)

// servedCacheControl applies to attachment bytes; only metadata is editable.
const servedCacheControl = "private, max-age=3600"

// RegisterRoutes attaches HTTP routes to the provided Fiber app. It fails when
// cfg names an unknown default form variant.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.AttachmentService, cfg config.AttachmentsConfig) error {
	defaultVariant, err := form.ParseVariant(cfg.DefaultForm, form.VariantOptional)
	if err != nil {
		return fmt.Errorf("default form: %w", err)
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	owners := app.Group("/owners/:ownerType/:ownerID/attachments")
	owners.Get("/", ListOwnerAttachments(svc, cfg.MediaURL))
	owners.Post("/", CreateAttachment(svc, defaultVariant, cfg.RedirectURL))

	attachments := app.Group("/attachments")
	attachments.Post("/edit/", EditDescription(svc))
	attachments.Post("/delete/", DeleteAttachment(svc))
	attachments.Get("/:action/:id/", middleware.CacheControl(servedCacheControl), ServeAttachment(svc))
	return nil
}

// HealthCheck godoc
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
