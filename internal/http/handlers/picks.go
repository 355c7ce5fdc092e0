package handlers

import (
	"errors"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"productadder/internal/domain"
	"productadder/internal/drafts"
	applog "productadder/internal/log"
	"productadder/internal/picker"
	"productadder/internal/selection"
	"productadder/internal/validate"
)

var (
	errNotImage = errors.New("only image files can be picked")
	errBadColor = errors.New("invalid color")
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// picks applies picker results to drafts.
type picks struct {
	Drafts     *drafts.Registry
	Broker     *picker.Broker
	StagingDir string
}

// await applies the result of an asynchronous pick once it is resolved.
func (p *picks) await(req picker.Request, ch <-chan picker.Response) {
	r, ok := <-ch
	if !ok {
		return
	}
	if _, err := p.apply(req, r); err != nil {
		applog.Error(nil, "picker.apply.fail", err, map[string]any{"draft": req.Owner, "kind": string(req.Kind)})
	}
}

func (p *picks) apply(req picker.Request, r picker.Response) (drafts.Draft, error) {
	return p.Drafts.Update(req.Owner, func(d *drafts.Draft) {
		switch req.Kind {
		case picker.Images:
			d.Selection = selection.AddImages(d.Selection, r.Images...)
		case picker.Colors:
			for _, c := range r.Colors {
				d.Selection = selection.AddColor(d.Selection, c)
			}
		}
	})
}

// stageImages saves the multipart "images" files of the request under the
// draft's staging directory and returns their refs.
func (p *picks) stageImages(c *fiber.Ctx, draftID string) ([]domain.ImageRef, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File["images"]
	for _, fh := range files {
		if !isImage(fh) {
			return nil, errNotImage
		}
	}
	dir := filepath.Join(p.StagingDir, draftID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	refs := make([]domain.ImageRef, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		refs = append(refs, domain.ImageRef(draftID+"/"+name))
	}
	return refs, nil
}

func isImage(fh *multipart.FileHeader) bool {
	if strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return true
	}
	return imageExts[strings.ToLower(filepath.Ext(fh.Filename))]
}

type colorBody struct {
	// Packed ARGB, signed or unsigned.
	Color *int64 `json:"color"`
	Hex   string `json:"hex"`
}

// parseColors reads zero or one color from the body. An empty body means the
// picker was dismissed.
func parseColors(c *fiber.Ctx) ([]domain.Color, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}
	var b colorBody
	if err := c.BodyParser(&b); err != nil {
		return nil, errBadColor
	}
	switch {
	case b.Color != nil:
		v := *b.Color
		if v < math.MinInt32 || v > math.MaxUint32 {
			return nil, errBadColor
		}
		return []domain.Color{domain.Color(uint32(v))}, nil
	case b.Hex != "":
		hex, ok := validate.ColorHex(b.Hex)
		if !ok {
			return nil, errBadColor
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, errBadColor
		}
		return []domain.Color{domain.Color(v)}, nil
	}
	return nil, nil
}
