package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"productadder/internal/domain"
)

// Resolver opens the bytes behind an image reference.
type Resolver interface {
	Open(ctx context.Context, ref domain.ImageRef) (io.ReadCloser, error)
}

// FileResolver treats refs as file paths. With a Root set, refs must be
// relative paths that stay inside Root.
type FileResolver struct {
	Root string
}

func (r FileResolver) Open(_ context.Context, ref domain.ImageRef) (io.ReadCloser, error) {
	p := string(ref)
	if p == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	if r.Root != "" {
		clean := filepath.Clean(p)
		if filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
			return nil, fmt.Errorf("image reference %q escapes %s", p, r.Root)
		}
		p = filepath.Join(r.Root, clean)
	}
	return os.Open(p)
}

// MemResolver serves refs from memory.
type MemResolver map[domain.ImageRef][]byte

func (m MemResolver) Open(_ context.Context, ref domain.ImageRef) (io.ReadCloser, error) {
	b, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("image %q: %w", ref, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
