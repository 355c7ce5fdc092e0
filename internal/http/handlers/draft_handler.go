package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"productadder/internal/domain"
	"productadder/internal/drafts"
	applog "productadder/internal/log"
	"productadder/internal/picker"
	"productadder/internal/selection"
	"productadder/internal/services"
	"productadder/internal/validate"
)

type DraftHandler struct {
	Drafts   *drafts.Registry
	Products *services.ProductService
	picks    *picks
}

type draftView struct {
	ID       string          `json:"id"`
	Images   int             `json:"images"`
	Colors   string          `json:"colors"`
	Busy     bool            `json:"busy"`
	LastSave *drafts.Outcome `json:"lastSave,omitempty"`
}

func view(d drafts.Draft) draftView {
	return draftView{
		ID:       d.ID,
		Images:   selection.ImageCount(d.Selection),
		Colors:   selection.ColorsLabel(d.Selection),
		Busy:     d.Busy,
		LastSave: d.LastSave,
	}
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "draft not found"})
}

// POST /api/v1/drafts
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	d := h.Drafts.Create()
	applog.Info(c, "draft.create", map[string]any{"draft": d.ID})
	return c.Status(fiber.StatusCreated).JSON(view(d))
}

// GET /api/v1/drafts/:id
func (h *DraftHandler) Show(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	d, ok := h.Drafts.Get(id)
	if !ok {
		return notFound(c)
	}
	return c.JSON(view(d))
}

// DELETE /api/v1/drafts/:id
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	switch err := h.Drafts.Delete(id); {
	case errors.Is(err, drafts.ErrNotFound):
		return notFound(c)
	case errors.Is(err, drafts.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "save in progress"})
	}
	applog.Info(c, "draft.delete", map[string]any{"draft": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/drafts/:id/pickers starts an asynchronous pick whose result
// is posted later to /api/v1/pickers/:token.
func (h *DraftHandler) StartPick(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	if _, ok := h.Drafts.Get(id); !ok {
		return notFound(c)
	}
	var body struct {
		Kind picker.Kind `json:"kind"`
	}
	if err := c.BodyParser(&body); err != nil || (body.Kind != picker.Images && body.Kind != picker.Colors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be images or colors"})
	}
	req, ch := h.picks.Broker.Request(body.Kind, id)
	go h.picks.await(req, ch)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": req.Token, "kind": req.Kind})
}

// POST /api/v1/drafts/:id/images picks and applies images in one request.
func (h *DraftHandler) AddImages(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	if _, ok := h.Drafts.Get(id); !ok {
		return notFound(c)
	}
	refs, err := h.picks.stageImages(c, id)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "images", "draft": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read images"})
	}
	return h.pickNow(c, picker.Images, id, picker.Response{Images: refs})
}

// POST /api/v1/drafts/:id/colors picks and applies a color in one request.
func (h *DraftHandler) AddColor(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	if _, ok := h.Drafts.Get(id); !ok {
		return notFound(c)
	}
	colors, err := parseColors(c)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "color", "draft": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid color"})
	}
	return h.pickNow(c, picker.Colors, id, picker.Response{Colors: colors})
}

func (h *DraftHandler) pickNow(c *fiber.Ctx, kind picker.Kind, id string, r picker.Response) error {
	req, ch := h.picks.Broker.Request(kind, id)
	if err := h.picks.Broker.Resolve(req.Token, r); err != nil {
		h.picks.Broker.Cancel(req.Token)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	d, err := h.picks.apply(req, <-ch)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(view(d))
}

// POST /api/v1/drafts/:id/save validates, then saves in the background.
// Upload and store failures only show up as busy clearing with a failed
// lastSave; the client is not told why.
func (h *DraftHandler) Save(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	d, ok := h.Drafts.Get(id)
	if !ok {
		return notFound(c)
	}
	var f domain.Form
	if err := c.BodyParser(&f); err != nil || !h.Products.Validate(f, d.Selection) {
		applog.Security(c, "validation.fail", map[string]any{"field": "product", "draft": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Check your inputs"})
	}
	d, err := h.Drafts.Begin(id)
	if errors.Is(err, drafts.ErrBusy) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "save in progress"})
	}
	if err != nil {
		return notFound(c)
	}
	go h.save(id, f, d.Selection)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "saving"})
}

func (h *DraftHandler) save(id string, f domain.Form, sel selection.State) {
	res, err := h.Products.Save(context.Background(), f, sel, h.Drafts.Indicator(id))
	h.Drafts.Finish(id, drafts.Outcome{OK: err == nil, DocumentID: res.DocumentID, At: time.Now().UTC()})
}
