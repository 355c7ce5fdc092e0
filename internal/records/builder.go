// Package records assembles product records from form input and upload URLs.
package records

import (
	"fmt"
	"strconv"
	"strings"

	"productadder/internal/domain"
)

// Build assembles a product record. It does not validate presence; callers
// gate with validate.Product first. Empty optional inputs become absent.
func Build(id string, f domain.Form, colors []domain.Color, urls []string) (domain.Product, error) {
	f = f.Trim()

	price, err := parseFloat(f.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}
	p := domain.Product{
		ID:       id,
		Name:     f.Name,
		Category: f.Category,
		Price:    price,
		Sizes:    SizesList(f.Sizes),
		Images:   append([]string{}, urls...),
	}
	if f.OfferPercentage != "" {
		offer, err := parseFloat(f.OfferPercentage)
		if err != nil {
			return domain.Product{}, fmt.Errorf("offer percentage: %w", err)
		}
		p.OfferPercentage = &offer
	}
	if f.Description != "" {
		d := f.Description
		p.Description = &d
	}
	if len(colors) > 0 {
		p.Colors = append([]domain.Color(nil), colors...)
	}
	return p, nil
}

// SizesList splits comma separated sizes. Entries are not trimmed, so
// "S, M" yields ["S", " M"]. Empty input yields nil.
func SizesList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	return float32(v), nil
}
