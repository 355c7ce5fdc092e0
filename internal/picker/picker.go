// Package picker correlates picker requests with their results.
//
// A screen issues a Request, hands the token to whatever UI performs the
// pick, and waits on the returned channel. The UI side calls Resolve with the
// same token once the user confirms or dismisses the picker.
package picker

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"productadder/internal/domain"
)

type Kind string

const (
	Images Kind = "images"
	Colors Kind = "colors"
)

var (
	ErrUnknownToken = errors.New("unknown picker token")
	ErrWrongKind    = errors.New("picker result does not match request kind")
	ErrTooMany      = errors.New("color picker returns at most one color")
)

// Request identifies one pick. Owner names whatever the result is for,
// such as a draft id.
type Request struct {
	Token string
	Kind  Kind
	Owner string
}

// Response carries zero or more image refs for an image pick, or zero or one
// color for a color pick. A dismissed picker resolves with an empty Response.
type Response struct {
	Images []domain.ImageRef
	Colors []domain.Color
}

type pending struct {
	req Request
	ch  chan Response
}

type Broker struct {
	mu      sync.Mutex
	pending map[string]pending
}

func NewBroker() *Broker {
	return &Broker{pending: map[string]pending{}}
}

// Request registers a new pick and returns its token and result channel.
// The channel receives exactly one Response, or is closed on Cancel.
func (b *Broker) Request(kind Kind, owner string) (Request, <-chan Response) {
	req := Request{Token: uuid.NewString(), Kind: kind, Owner: owner}
	ch := make(chan Response, 1)
	b.mu.Lock()
	b.pending[req.Token] = pending{req: req, ch: ch}
	b.mu.Unlock()
	return req, ch
}

// Resolve delivers the result of a pick. Each token resolves at most once.
func (b *Broker) Resolve(token string, r Response) error {
	b.mu.Lock()
	p, ok := b.pending[token]
	if !ok {
		b.mu.Unlock()
		return ErrUnknownToken
	}
	switch p.req.Kind {
	case Images:
		if len(r.Colors) > 0 {
			b.mu.Unlock()
			return ErrWrongKind
		}
	case Colors:
		if len(r.Images) > 0 {
			b.mu.Unlock()
			return ErrWrongKind
		}
		if len(r.Colors) > 1 {
			b.mu.Unlock()
			return ErrTooMany
		}
	}
	delete(b.pending, token)
	b.mu.Unlock()

	p.ch <- r
	return nil
}

// Cancel drops a pending pick and closes its channel.
func (b *Broker) Cancel(token string) {
	b.mu.Lock()
	p, ok := b.pending[token]
	delete(b.pending, token)
	b.mu.Unlock()
	if ok {
		close(p.ch)
	}
}

// Lookup returns the request behind a pending token.
func (b *Broker) Lookup(token string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[token]
	return p.req, ok
}

func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
