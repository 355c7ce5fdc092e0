// Package selection accumulates picked images and colors for a product draft.
//
// State is a value; every transition returns a new State and never aliases
// the slices of its input, so callers can keep older snapshots around.
package selection

import (
	"strings"

	"productadder/internal/domain"
)

type State struct {
	Images []domain.ImageRef
	Colors []domain.Color
}

// AddImages appends refs in order. Duplicates are kept.
func AddImages(s State, refs ...domain.ImageRef) State {
	next := State{
		Images: make([]domain.ImageRef, 0, len(s.Images)+len(refs)),
		Colors: s.Colors,
	}
	next.Images = append(next.Images, s.Images...)
	next.Images = append(next.Images, refs...)
	return next
}

// AddColor appends one confirmed color. Duplicates are kept.
func AddColor(s State, c domain.Color) State {
	next := State{
		Images: s.Images,
		Colors: make([]domain.Color, 0, len(s.Colors)+1),
	}
	next.Colors = append(next.Colors, s.Colors...)
	next.Colors = append(next.Colors, c)
	return next
}

func ImageCount(s State) int { return len(s.Images) }

// ColorsLabel renders the selected colors the way the form shows them: each
// hex value preceded by a single space.
func ColorsLabel(s State) string {
	var b strings.Builder
	for _, c := range s.Colors {
		b.WriteByte(' ')
		b.WriteString(c.Hex())
	}
	return b.String()
}
