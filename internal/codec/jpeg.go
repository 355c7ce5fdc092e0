// Package codec turns picked image references into JPEG byte buffers.
package codec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"productadder/internal/domain"
)

// MaxQuality is the fixed JPEG quality every upload is re-encoded at.
const MaxQuality = 100

type JPEG struct {
	Resolver Resolver
}

func NewJPEG(r Resolver) *JPEG { return &JPEG{Resolver: r} }

// Encode decodes the referenced image and re-encodes it as JPEG. Any failure
// is reported wrapped in domain.ErrCodec.
func (j *JPEG) Encode(ctx context.Context, ref domain.ImageRef) ([]byte, error) {
	rc, err := j.Resolver.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCodec, ref, err)
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCodec, ref, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(MaxQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", domain.ErrCodec, ref, err)
	}
	return buf.Bytes(), nil
}

// EncodeAll converts refs in order and stops at the first failure.
func (j *JPEG) EncodeAll(ctx context.Context, refs []domain.ImageRef) ([][]byte, error) {
	out := make([][]byte, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := j.Encode(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
