package drafts_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"productadder/internal/domain"
	"productadder/internal/drafts"
	"productadder/internal/selection"
)

func TestRegistryUpdateAndGet(t *testing.T) {
	r, err := drafts.NewRegistry(4, nil)
	require.NoError(t, err)

	d := r.Create()
	_, err = r.Update(d.ID, func(d *drafts.Draft) {
		d.Selection = selection.AddImages(d.Selection, "a", "b")
	})
	require.NoError(t, err)

	got, ok := r.Get(d.ID)
	require.True(t, ok)
	require.Equal(t, []domain.ImageRef{"a", "b"}, got.Selection.Images)

	_, err = r.Update("missing", func(*drafts.Draft) {})
	require.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestRegistryConcurrentPicks(t *testing.T) {
	r, err := drafts.NewRegistry(4, nil)
	require.NoError(t, err)
	d := r.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Update(d.ID, func(d *drafts.Draft) {
				d.Selection = selection.AddColor(d.Selection, 0xff000000)
			})
		}()
	}
	wg.Wait()
	got, _ := r.Get(d.ID)
	require.Len(t, got.Selection.Colors, 50)
}

func TestRegistryBusyLifecycle(t *testing.T) {
	r, err := drafts.NewRegistry(4, nil)
	require.NoError(t, err)
	d := r.Create()

	_, err = r.Begin(d.ID)
	require.NoError(t, err)
	_, err = r.Begin(d.ID)
	require.ErrorIs(t, err, drafts.ErrBusy)
	require.ErrorIs(t, r.Delete(d.ID), drafts.ErrBusy)

	r.Finish(d.ID, drafts.Outcome{OK: true, DocumentID: "doc"})
	got, _ := r.Get(d.ID)
	require.False(t, got.Busy)
	require.Equal(t, "doc", got.LastSave.DocumentID)

	require.NoError(t, r.Delete(d.ID))
	_, ok := r.Get(d.ID)
	require.False(t, ok)
}

func TestRegistryIndicatorLeavesBusyToFinish(t *testing.T) {
	r, err := drafts.NewRegistry(4, nil)
	require.NoError(t, err)
	d := r.Create()

	_, err = r.Begin(d.ID)
	require.NoError(t, err)
	ind := r.Indicator(d.ID)
	ind.Show()
	ind.Hide()

	// a save that has hidden its indicator but not finished still holds the draft
	got, _ := r.Get(d.ID)
	require.True(t, got.Busy)
	_, err = r.Begin(d.ID)
	require.ErrorIs(t, err, drafts.ErrBusy)

	r.Finish(d.ID, drafts.Outcome{OK: false})
	got, _ = r.Get(d.ID)
	require.False(t, got.Busy)
	require.NotNil(t, got.LastSave)
}

func TestRegistryEviction(t *testing.T) {
	var evicted []string
	r, err := drafts.NewRegistry(2, func(id string) { evicted = append(evicted, id) })
	require.NoError(t, err)

	first := r.Create()
	r.Create()
	r.Create()

	require.Equal(t, 2, r.Len())
	require.Equal(t, []string{first.ID}, evicted)
	_, ok := r.Get(first.ID)
	require.False(t, ok)
}

func TestRegistryEvictionSparesBusyDrafts(t *testing.T) {
	var evicted []string
	r, err := drafts.NewRegistry(2, func(id string) { evicted = append(evicted, id) })
	require.NoError(t, err)

	saving := r.Create()
	_, err = r.Begin(saving.ID)
	require.NoError(t, err)
	idle := r.Create()
	third := r.Create()

	require.Equal(t, []string{idle.ID}, evicted)
	_, ok := r.Get(saving.ID)
	require.True(t, ok)

	// with every draft busy the oldest is pushed out, but cleaned up only
	// once its save finishes
	_, err = r.Begin(third.ID)
	require.NoError(t, err)
	r.Create()
	_, ok = r.Get(saving.ID)
	require.False(t, ok)
	require.Equal(t, []string{idle.ID}, evicted)

	r.Finish(saving.ID, drafts.Outcome{OK: true})
	require.Equal(t, []string{idle.ID, saving.ID}, evicted)
	r.Finish(saving.ID, drafts.Outcome{OK: true})
	require.Len(t, evicted, 2)
}
