package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"productadder/internal/domain"
)

func TestSaveFlowEndToEnd(t *testing.T) {
	a := newTestApp(t)
	id := a.newDraft(t)

	resp, d := a.postImages(t, "/api/v1/drafts/"+id+"/images", "front.png", "back.png")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, d["images"])
	require.Equal(t, "", d["colors"])

	resp, m := a.postJSON(t, "/api/v1/drafts/"+id+"/save", map[string]string{
		"name": "Shirt", "category": "Apparel", "price": "19.99",
		"offerPercentage": "", "description": "", "sizes": "S,M",
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	require.Equal(t, "saving", m["status"])

	last := a.waitSaved(t, id)
	require.Equal(t, true, last["ok"])
	docID := last["documentId"].(string)

	raw, err := a.docs.Raw(context.Background(), domain.Products, docID)
	require.NoError(t, err)
	for _, k := range []string{"offerPercentage", "description", "colors"} {
		require.NotContains(t, raw, `"`+k+`"`)
	}

	resp, p := a.get(t, "/api/v1/products/"+docID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Shirt", p["name"])
	require.Equal(t, "Apparel", p["category"])
	require.InDelta(t, 19.99, p["price"], 0.001)
	require.Equal(t, []any{"S", "M"}, p["sizes"])
	require.Len(t, p["images"], 2)
	require.Len(t, a.store.Keys(), 2)
	for _, k := range a.store.Keys() {
		require.True(t, strings.HasPrefix(k, "products/images/"), k)
	}
}

func TestSaveValidationFailure(t *testing.T) {
	a := newTestApp(t)
	id := a.newDraft(t)

	// no images selected
	resp, m := a.postJSON(t, "/api/v1/drafts/"+id+"/save", map[string]string{
		"name": "Shirt", "category": "Apparel", "price": "1",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Check your inputs", m["error"])

	// blank name
	a.postImages(t, "/api/v1/drafts/"+id+"/images", "a.png")
	resp, _ = a.postJSON(t, "/api/v1/drafts/"+id+"/save", map[string]string{
		"name": "  ", "category": "Apparel", "price": "1",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, d := a.get(t, "/api/v1/drafts/"+id)
	require.Equal(t, false, d["busy"])
	require.Nil(t, d["lastSave"])
}

func TestSaveUploadFailureIsSilent(t *testing.T) {
	a := newTestApp(t)
	a.store.FailPut = func(string) error { return os.ErrDeadlineExceeded }
	id := a.newDraft(t)
	a.postImages(t, "/api/v1/drafts/"+id+"/images", "a.png")

	resp, _ := a.postJSON(t, "/api/v1/drafts/"+id+"/save", map[string]string{
		"name": "Shirt", "category": "Apparel", "price": "1",
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	last := a.waitSaved(t, id)
	require.Equal(t, false, last["ok"])
	require.NotContains(t, last, "documentId")

	n, err := a.docs.Count(context.Background(), domain.Products)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSaveCorruptImage(t *testing.T) {
	a := newTestApp(t)
	id := a.newDraft(t)
	a.postImages(t, "/api/v1/drafts/"+id+"/images", "a.png", "corrupt.png")

	resp, _ := a.postJSON(t, "/api/v1/drafts/"+id+"/save", map[string]string{
		"name": "Shirt", "category": "Apparel", "price": "1",
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	last := a.waitSaved(t, id)
	require.Equal(t, false, last["ok"])
	require.Empty(t, a.store.Keys())
}

func TestDeleteDraftDiscardsStaging(t *testing.T) {
	a := newTestApp(t)
	id := a.newDraft(t)
	a.postImages(t, "/api/v1/drafts/"+id+"/images", "a.png")

	_, err := os.Stat(filepath.Join(a.staging, id))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/drafts/"+id, nil)
	resp, _ := a.do(t, req)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, err = os.Stat(filepath.Join(a.staging, id))
	require.True(t, os.IsNotExist(err))

	resp, _ = a.get(t, "/api/v1/drafts/"+id)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductNotFound(t *testing.T) {
	a := newTestApp(t)
	resp, _ := a.get(t, "/api/v1/products/does-not-exist")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = a.get(t, "/api/v1/products/..%2Fetc")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSaveSurvivesOtherRequests(t *testing.T) {
	a := newTestApp(t)
	target := a.newDraft(t)
	other := a.newDraft(t)
	a.postImages(t, "/api/v1/drafts/"+target+"/images", "a.png")

	resp, _ := a.postJSON(t, "/api/v1/drafts/"+target+"/save", map[string]string{
		"name": "Shirt", "category": "Apparel", "price": "19.99",
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	for i := 0; i < 5; i++ {
		resp, _ := a.get(t, "/api/v1/drafts/"+other)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	last := a.waitSaved(t, target)
	require.Equal(t, true, last["ok"])
	_, d := a.get(t, "/api/v1/drafts/"+other)
	require.Nil(t, d["lastSave"])
	require.Equal(t, false, d["busy"])

	resp, p := a.get(t, "/api/v1/products/"+last["documentId"].(string))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Shirt", p["name"])
}

func TestSaveWhileBusyConflicts(t *testing.T) {
	a := newTestApp(t)
	a.store.FailPut = func(string) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}
	id := a.newDraft(t)
	a.postImages(t, "/api/v1/drafts/"+id+"/images", "a.png")
	form := map[string]string{"name": "Shirt", "category": "Apparel", "price": "1"}

	resp, _ := a.postJSON(t, "/api/v1/drafts/"+id+"/save", form)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	resp, _ = a.postJSON(t, "/api/v1/drafts/"+id+"/save", form)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	last := a.waitSaved(t, id)
	require.Equal(t, true, last["ok"])
}
