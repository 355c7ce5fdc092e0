package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"productadder/internal/domain"
	"productadder/internal/log"
	"productadder/internal/services"
	"productadder/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

// GET /
func (h *ProductHandler) Form(c *fiber.Ctx) error {
	return render(c, "product_form", fiber.Map{})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Products.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		log.Error(c, "product.get.fail", err, map[string]any{"document": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load product"})
	}
	return c.JSON(p)
}
