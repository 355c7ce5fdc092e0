package domain

import (
	"strconv"
	"strings"
)

// Products is the document collection product records are written to.
const Products = "Products"

// Color is a packed ARGB value as returned by the color picker.
type Color uint32

// Hex renders the color as lowercase hex without padding.
func (c Color) Hex() string { return strconv.FormatUint(uint64(c), 16) }

// ImageRef is an opaque reference to a picked image.
type ImageRef string

// Product is the unit of persistence. Optional fields are nil when the
// corresponding input was empty and are omitted from the stored document.
type Product struct {
	ID              string   `json:"id" bson:"id"`
	Name            string   `json:"name" bson:"name"`
	Category        string   `json:"category" bson:"category"`
	Price           float32  `json:"price" bson:"price"`
	OfferPercentage *float32 `json:"offerPercentage,omitempty" bson:"offerPercentage,omitempty"`
	Description     *string  `json:"description,omitempty" bson:"description,omitempty"`
	Colors          []Color  `json:"colors,omitempty" bson:"colors,omitempty"`
	Sizes           []string `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Images          []string `json:"images" bson:"images"`
}

// Form holds the raw text of the product form inputs.
type Form struct {
	Name            string `json:"name" form:"name"`
	Category        string `json:"category" form:"category"`
	Price           string `json:"price" form:"price"`
	OfferPercentage string `json:"offerPercentage" form:"offerPercentage"`
	Description     string `json:"description" form:"description"`
	Sizes           string `json:"sizes" form:"sizes"`
}

// Trim returns a copy with surrounding whitespace removed from every input.
func (f Form) Trim() Form {
	return Form{
		Name:            strings.TrimSpace(f.Name),
		Category:        strings.TrimSpace(f.Category),
		Price:           strings.TrimSpace(f.Price),
		OfferPercentage: strings.TrimSpace(f.OfferPercentage),
		Description:     strings.TrimSpace(f.Description),
		Sizes:           strings.TrimSpace(f.Sizes),
	}
}
