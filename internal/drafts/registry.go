// Package drafts keeps the per-screen state of products being composed.
//
// A draft lives until it is deleted or evicted by newer drafts; either way
// its selection is discarded, like a screen being destroyed.
package drafts

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"productadder/internal/selection"
)

var (
	ErrNotFound = errors.New("draft not found")
	ErrBusy     = errors.New("draft has a save in progress")
)

// Outcome records how the last save attempt of a draft ended.
type Outcome struct {
	OK         bool      `json:"ok"`
	DocumentID string    `json:"documentId,omitempty"`
	At         time.Time `json:"at"`
}

type Draft struct {
	ID        string
	Selection selection.State
	Busy      bool
	LastSave  *Outcome
	CreatedAt time.Time
}

type Registry struct {
	mu      sync.Mutex
	size    int
	cache   *lru.Cache[string, *Draft]
	onEvict func(id string)
	// evicted while saving; cleaned up by Finish
	detached map[string]bool
}

// NewRegistry keeps at most size drafts. onEvict, if set, runs for drafts
// pushed out by capacity and for deleted drafts. A draft pushed out while a
// save is running is only cleaned up once that save finishes.
func NewRegistry(size int, onEvict func(id string)) (*Registry, error) {
	r := &Registry{size: size, onEvict: onEvict, detached: map[string]bool{}}
	cache, err := lru.NewWithEvict(size, func(id string, d *Draft) {
		if d.Busy {
			r.detached[id] = true
			return
		}
		r.cleanup(id)
	})
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

func (r *Registry) cleanup(id string) {
	if r.onEvict != nil {
		r.onEvict(id)
	}
}

// Create adds a draft. At capacity the least recently used idle draft makes
// room; busy drafts are only pushed out when every draft is busy.
func (r *Registry) Create() Draft {
	d := &Draft{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache.Len() >= r.size {
		for _, id := range r.cache.Keys() {
			if old, ok := r.cache.Peek(id); ok && !old.Busy {
				r.cache.Remove(id)
				break
			}
		}
	}
	r.cache.Add(d.ID, d)
	return *d
}

// Get returns a snapshot of the draft.
func (r *Registry) Get(id string) (Draft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.cache.Get(id)
	if !ok {
		return Draft{}, false
	}
	return *d, true
}

// Update applies fn to the draft under the registry lock and returns the
// resulting snapshot.
func (r *Registry) Update(id string, fn func(d *Draft)) (Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.cache.Get(id)
	if !ok {
		return Draft{}, ErrNotFound
	}
	fn(d)
	return *d, nil
}

// Begin marks the draft busy and returns its snapshot, or ErrBusy when a
// save is already running.
func (r *Registry) Begin(id string) (Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.cache.Get(id)
	if !ok {
		return Draft{}, ErrNotFound
	}
	if d.Busy {
		return Draft{}, ErrBusy
	}
	d.Busy = true
	return *d, nil
}

// Finish stores the save outcome and clears the busy flag. Only Begin and
// Finish change the flag.
func (r *Registry) Finish(id string, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.cache.Peek(id); ok {
		d.Busy = false
		d.LastSave = &o
		return
	}
	if r.detached[id] {
		delete(r.detached, id)
		r.cleanup(id)
	}
}

// Delete discards a draft unless a save is in progress.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.cache.Peek(id)
	if !ok {
		return ErrNotFound
	}
	if d.Busy {
		return ErrBusy
	}
	r.cache.Remove(id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Indicator returns the busy indicator bound to one draft. The flag it shows
// is the one Begin set; Hide leaves it to Finish, which clears it together
// with the outcome.
func (r *Registry) Indicator(id string) *Indicator {
	return &Indicator{r: r, id: id}
}

type Indicator struct {
	r  *Registry
	id string
}

func (i *Indicator) Show() { _, _ = i.r.Update(i.id, func(d *Draft) { d.Busy = true }) }
func (i *Indicator) Hide() {}
