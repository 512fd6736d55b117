package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cassandra/internal/content"
	"cassandra/internal/deck"
	"cassandra/internal/imagesearch"
	"cassandra/internal/llm"
	"cassandra/internal/logging"
	"cassandra/internal/server/app"
	"cassandra/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	enabled bool
	err     error
	color   string
	query   string
	count   int
}

func (f *fakeImages) Enabled() bool { return f.enabled }

func (f *fakeImages) Backgrounds(_ context.Context, color, query string, count int) ([]imagesearch.Photo, error) {
	f.color, f.query, f.count = color, query, count
	if f.err != nil {
		return nil, f.err
	}
	return []imagesearch.Photo{{ID: 1, URL: "https://img/1.jpg", Alt: "Background by Ana"}}, nil
}

func (f *fakeImages) ThankYouImages(_ context.Context, maxResults int) ([]imagesearch.Photo, error) {
	f.count = maxResults
	return []imagesearch.Photo{{ID: 2}, {ID: 3}}, f.err
}

type testServer struct {
	engine *gin.Engine
	ws     *workspace.Workspace
	images *fakeImages
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, &llm.MockClient{}, nil)
}

func newTestServerWith(t *testing.T, client llm.Client, origins []string) *testServer {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.New(filepath.Join(root, "data"), filepath.Join(root, "output"))
	require.NoError(t, err)
	assembler, err := deck.NewAssembler(deck.WithLogger(logging.Nop()))
	require.NoError(t, err)

	opts := []content.Option{content.WithLogger(logging.Nop())}
	svc := app.NewDeckService(
		content.NewPlanner(client, opts...),
		content.NewSynthesizer(client, opts...),
		content.NewRefiner(client, opts...),
		assembler,
		ws,
		app.WithServiceLogger(logging.Nop()),
	)
	images := &fakeImages{enabled: true}
	engine := NewRouter(RouterDeps{Service: svc, Images: images, AllowedOrigins: origins, Logger: logging.Nop()})
	return &testServer{engine: engine, ws: ws, images: images}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPingAndLogID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "message": "I'm alive!"}, decode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Log-Id"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Log-Id", "abc-123")
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Log-Id"))
}

func TestMetricsDisabledWithoutCollector(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplatesDefaults(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pink", body["color"])
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, "abstract background", s.images.query)
	assert.Equal(t, 12, s.images.count)
}

func TestTemplatesUpstreamFailureIsEmpty(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.images.err = errors.New("pexels down")
	rec := s.do(t, http.MethodGet, "/api/templates?color=blue&query=sky&count=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["templates"])
	assert.Equal(t, "blue", s.images.color)
}

func TestTemplateColors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := decode(t, s.do(t, http.MethodGet, "/api/template-colors", nil))
	colors, ok := body["colors"].([]any)
	require.True(t, ok)
	assert.Len(t, colors, 12)
	assert.Equal(t, map[string]any{"name": "red", "hex": "#dc143c"}, colors[0])
}

func TestThankYouImages(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := decode(t, s.do(t, http.MethodGet, "/api/pexels/thank-you-images", nil))
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, 100, s.images.count)

	s.images.enabled = false
	body = decode(t, s.do(t, http.MethodGet, "/api/pexels/thank-you-images", nil))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, body["count"])
}

func TestGenerateTopicsClampsCount(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := decode(t, s.do(t, http.MethodPost, "/api/generate-topics", map[string]any{"topic": "Blockchain", "num_slides": 4}))
	slides, ok := body["slides"].([]any)
	require.True(t, ok)
	assert.Len(t, slides, 10)
	assert.Equal(t, "INTRODUCTION TO BLOCKCHAIN", slides[0])

	body = decode(t, s.do(t, http.MethodPost, "/api/generate-topics", map[string]any{"topic": "Blockchain"}))
	assert.Len(t, body["slides"], app.DefaultSlides)

	body = decode(t, s.do(t, http.MethodPost, "/api/generate-topics", map[string]any{"topic": "Blockchain", "num_slides": 99}))
	assert.Len(t, body["slides"], 30)
}

func TestMissingTopicIs400(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, path := range []string{"/api/generate-topics", "/api/generate-preview", "/api/generate-ppt"} {
		rec := s.do(t, http.MethodPost, path, map[string]any{"topic": ""})
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, map[string]any{"success": false, "error": "Topic is required"}, decode(t, rec), path)
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/generate-preview", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestGeneratePreview(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := decode(t, s.do(t, http.MethodPost, "/api/generate-preview", map[string]any{
		"topic": "Rust", "num_slides": 10, "content_mode": "point",
	}))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["ai_generated"])
	assert.Equal(t, "Rust", body["topic"])
	slides := body["slides"].([]any)
	require.Len(t, slides, 10)
	first := slides[0].(map[string]any)
	assert.Equal(t, "bullet", first["type"])
	assert.True(t, strings.HasPrefix(first["content"].(string), "➣ "))
}

func TestRefineSlide(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/refine-slide", map[string]any{"topic": "Rust"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Topic and slide title are required", decode(t, rec)["error"])

	current := "• Advantage one is measurable.\n• Advantage two is repeatable."
	body := decode(t, s.do(t, http.MethodPost, "/api/refine-slide", map[string]any{
		"topic": "Rust", "slide_title": "ADVANTAGES", "current_content": current, "style": "bullet", "bullet_symbol": "➤",
	}))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "bullet", body["style"])
	assert.Equal(t, "➤ Advantage one is measurable.\n➤ Advantage two is repeatable.", body["content"])
}

func TestGeneratePPTStreamsAndDeletes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/generate-ppt", map[string]any{
		"topic": "Go Concurrency",
		"slides": []any{
			map[string]any{"title": "Introduction", "content": "Goroutines are lightweight threads managed by the runtime.", "type": "paragraph"},
			map[string]any{"title": "Channels", "content": "➣ Channels pass values between goroutines safely.\n➣ Buffered channels decouple senders from receivers.", "type": "bullet"},
		},
		"bulletSymbol": "►",
		"sections":     map[string]any{"Channels": map[string]any{"style": "bullet"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, deck.MediaType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cassandra_Go_Concurrency_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	entries, err := os.ReadDir(s.ws.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratePPTRejectsBadSections(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/generate-ppt", map[string]any{
		"topic":    "Go",
		"sections": map[string]any{"Intro": "diagram"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
