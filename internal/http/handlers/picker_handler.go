package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "productadder/internal/log"
	"productadder/internal/picker"
)

// PickerHandler resolves picks started with DraftHandler.StartPick.
type PickerHandler struct {
	picks *picks
}

// POST /api/v1/pickers/:token/images
func (h *PickerHandler) Images(c *fiber.Ctx) error {
	req, ok := h.picks.Broker.Lookup(c.Params("token"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown picker token"})
	}
	if req.Kind != picker.Images {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": picker.ErrWrongKind.Error()})
	}
	refs, err := h.picks.stageImages(c, req.Owner)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "images", "draft": req.Owner})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read images"})
	}
	return h.resolve(c, req, picker.Response{Images: refs})
}

// POST /api/v1/pickers/:token/colors
func (h *PickerHandler) Colors(c *fiber.Ctx) error {
	req, ok := h.picks.Broker.Lookup(c.Params("token"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown picker token"})
	}
	if req.Kind != picker.Colors {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": picker.ErrWrongKind.Error()})
	}
	colors, err := parseColors(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid color"})
	}
	return h.resolve(c, req, picker.Response{Colors: colors})
}

// DELETE /api/v1/pickers/:token dismisses a pick.
func (h *PickerHandler) Cancel(c *fiber.Ctx) error {
	h.picks.Broker.Cancel(c.Params("token"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PickerHandler) resolve(c *fiber.Ctx, req picker.Request, r picker.Response) error {
	if err := h.picks.Broker.Resolve(req.Token, r); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "picked"})
}
