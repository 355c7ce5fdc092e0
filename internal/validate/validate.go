package validate

import (
	"regexp"
	"strings"

	"productadder/internal/domain"
)

var (
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reColor = regexp.MustCompile(`^(#|0x)?[0-9A-Fa-f]{1,8}$`)
)

// Product gates the save action. It only checks presence: price, name and
// category must be non-blank and at least one image must be selected.
// Numeric parseability and ranges are not checked here.
func Product(f domain.Form, images []domain.ImageRef) bool {
	if strings.TrimSpace(f.Price) == "" {
		return false
	}
	if strings.TrimSpace(f.Name) == "" {
		return false
	}
	if strings.TrimSpace(f.Category) == "" {
		return false
	}
	if len(images) == 0 {
		return false
	}
	return true
}

// ID validates a simple resource identifier (draft/product ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// ColorHex validates a hex color string such as "ff00ff00", "#ff0000" or "0xff0000".
func ColorHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !reColor.MatchString(s) {
		return "", false
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	return strings.ToLower(s), true
}
