package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"

	"productadder/internal/codec"
	"productadder/internal/http/handlers"
	"productadder/internal/repos"
	"productadder/internal/services"
	"productadder/internal/storage"
	"productadder/internal/uploader"
)

type testApp struct {
	app     *fiber.App
	store   *storage.MemoryStore
	docs    *repos.DocumentRepo
	staging string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	staging := t.TempDir()
	store := storage.NewMemoryStore("https://cdn.test")
	docs := repos.NewDocumentRepo(db)
	svc := services.NewProductService(codec.NewJPEG(codec.FileResolver{Root: staging}), uploader.New(store), docs)

	deps, err := handlers.NewDeps(svc, staging, 16)
	require.NoError(t, err)
	engine := html.New("../../web/templates", ".html")
	return &testApp{app: handlers.NewApp(deps, engine), store: store, docs: docs, staging: staging}
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 3))))
	return buf.Bytes()
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var m map[string]any
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &m), string(body))
	}
	return resp, m
}

func (a *testApp) postJSON(t *testing.T, path string, v any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	return a.do(t, req)
}

func (a *testApp) postImages(t *testing.T, path string, names ...string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, n := range names {
		fw, err := w.CreateFormFile("images", n)
		require.NoError(t, err)
		if n == "corrupt.png" {
			_, _ = fw.Write([]byte("not a png"))
		} else {
			_, _ = fw.Write(pngFile(t))
		}
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(t, req)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) newDraft(t *testing.T) string {
	t.Helper()
	resp, m := a.postJSON(t, "/api/v1/drafts", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return m["id"].(string)
}

// waitSaved polls the draft until its last save is recorded.
func (a *testApp) waitSaved(t *testing.T, id string) map[string]any {
	t.Helper()
	var last map[string]any
	require.Eventually(t, func() bool {
		_, d := a.get(t, "/api/v1/drafts/"+id)
		ls, ok := d["lastSave"].(map[string]any)
		if ok && d["busy"] == false {
			last = ls
			return true
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
	return last
}
