package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "productadder/internal/log"
)

// media serves stored objects from dir, refusing anything that could leave it.
func media(dir string) fiber.Handler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		raw := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(raw, "..") || strings.Contains(raw, "%2e") || strings.Contains(raw, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || filepath.IsAbs(clean) || strings.HasSuffix(clean, ".part") {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, "image/jpeg")
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}
