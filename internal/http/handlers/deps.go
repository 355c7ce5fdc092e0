package handlers

import (
	"os"
	"path/filepath"

	"productadder/internal/drafts"
	applog "productadder/internal/log"
	"productadder/internal/picker"
	"productadder/internal/services"
)

type Deps struct {
	DraftHandler   *DraftHandler
	PickerHandler  *PickerHandler
	ProductHandler *ProductHandler
	Drafts         *drafts.Registry
	// MediaDir, when set, is served under /media.
	MediaDir string
}

// NewDeps wires the handlers around one product service. Picked images are
// staged under stagingDir/<draft id>/ and removed when the draft goes away.
func NewDeps(products *services.ProductService, stagingDir string, capacity int) (*Deps, error) {
	reg, err := drafts.NewRegistry(capacity, func(id string) {
		if err := os.RemoveAll(filepath.Join(stagingDir, id)); err != nil {
			applog.Error(nil, "draft.cleanup.fail", err, map[string]any{"draft": id})
		}
	})
	if err != nil {
		return nil, err
	}
	picks := &picks{Drafts: reg, Broker: picker.NewBroker(), StagingDir: stagingDir}
	return &Deps{
		DraftHandler:   &DraftHandler{Drafts: reg, Products: products, picks: picks},
		PickerHandler:  &PickerHandler{picks: picks},
		ProductHandler: &ProductHandler{Products: products},
		Drafts:         reg,
	}, nil
}
