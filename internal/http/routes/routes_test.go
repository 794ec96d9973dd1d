package routes

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phambaophuc/rich-menu-resizer/internal/config"
	"github.com/phambaophuc/rich-menu-resizer/internal/http/handlers"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/storage"
)

const imageDir = "/data/rich-menu"

type fakeRunner struct {
	result *models.ResizeResult
	err    error
	cfg    config.ResizeConfig
	calls  int
}

func (r *fakeRunner) Run(context.Context) (*models.ResizeResult, error) {
	r.calls++
	return r.result, r.err
}

func (r *fakeRunner) ReadDestination() ([]byte, error) {
	return os.ReadFile(r.cfg.DestinationPath)
}

func (r *fakeRunner) Config() config.ResizeConfig { return r.cfg }

func jobRunner() *fakeRunner {
	return &fakeRunner{cfg: config.ResizeConfig{DestinationPath: imageDir + "/banking_rich_menu_1040.png"}}
}

type fakeStore struct {
	last   *models.ResizeResult
	err    error
	health map[string]string
	stats  map[string]interface{}
}

func (s *fakeStore) GetLastResult(context.Context, config.ResizeConfig) (*models.ResizeResult, error) {
	return s.last, s.err
}

func (s *fakeStore) GetCacheStats(context.Context) (map[string]interface{}, error) {
	if s.stats == nil {
		return nil, storage.ErrNotConfigured
	}
	return s.stats, nil
}

func (s *fakeStore) HealthCheck(context.Context) map[string]string { return s.health }

type fakeQueue struct {
	jobs   []*models.ResizeJob
	err    error
	health string
	stats  map[string]interface{}
}

func (q *fakeQueue) PublishJob(_ context.Context, job *models.ResizeJob) error {
	if q.err != nil {
		return q.err
	}
	job.ID = "job-1"
	job.Status = models.StatusPending
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) GetQueueStats() (map[string]interface{}, error) {
	if q.stats == nil {
		return nil, errors.New("queue inspect failed")
	}
	return q.stats, nil
}

func (q *fakeQueue) HealthCheck() string { return q.health }

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(runner handlers.Runner, store handlers.ResultStore, queue handlers.JobQueue) *gin.Engine {
	h := handlers.NewImageHandler(runner, store, queue, zap.NewNop())
	return NewRouter(h, zap.NewNop()).SetupRoutes()
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp models.APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestResizeEndpoint(t *testing.T) {
	t.Run("resized", func(t *testing.T) {
		runner := &fakeRunner{result: &models.ResizeResult{
			Status:          models.ResultResized,
			DestinationPath: "/data/out.png",
			Size:            models.ResizeSize{Width: 1040, Height: 1040},
		}}
		w, resp := do(t, newEngine(runner, nil, nil), http.MethodPost, "/api/v1/images/resize", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "Image resized and saved to /data/out.png", resp.Message)
		assert.Equal(t, 1, runner.calls)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("source missing", func(t *testing.T) {
		runner := &fakeRunner{result: &models.ResizeResult{Status: models.ResultSourceMissing}}
		w, resp := do(t, newEngine(runner, nil, nil), http.MethodPost, "/api/v1/images/resize", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "Input image not found.", resp.Error)
	})

	t.Run("processing error", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("failed to decode image")}
		w, resp := do(t, newEngine(runner, nil, nil), http.MethodPost, "/api/v1/images/resize", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to process image", resp.Error)
	})
}

func TestResizedImageEndpoint(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "banking_rich_menu_1040.png")
	runner := &fakeRunner{cfg: config.ResizeConfig{DestinationPath: dst}}
	engine := newEngine(runner, nil, nil)

	w, _ := do(t, engine, http.MethodGet, "/api/v1/images/resized", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, os.WriteFile(dst, []byte("png bytes"), 0o644))
	w, _ = do(t, engine, http.MethodGet, "/api/v1/images/resized", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "png bytes", w.Body.String())
}

func TestResizedImageEndpointTranscodes(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "banking_rich_menu_1040.png")
	require.NoError(t, imaging.Save(imaging.New(16, 16, color.NRGBA{G: 255, A: 255}), dst))
	engine := newEngine(&fakeRunner{cfg: config.ResizeConfig{DestinationPath: dst}}, nil, nil)

	w, _ := do(t, engine, http.MethodGet, "/api/v1/images/resized?format=jpg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	_, format, err := image.DecodeConfig(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	w, _ = do(t, engine, http.MethodGet, "/api/v1/images/resized?format=xyz", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLastResultEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		store handlers.ResultStore
		want  int
	}{
		{name: "no store", store: nil, want: http.StatusServiceUnavailable},
		{name: "redis not configured", store: &fakeStore{err: storage.ErrNotConfigured}, want: http.StatusServiceUnavailable},
		{name: "cache error", store: &fakeStore{err: errors.New("dial tcp")}, want: http.StatusServiceUnavailable},
		{name: "miss", store: &fakeStore{}, want: http.StatusNotFound},
		{name: "hit", store: &fakeStore{last: &models.ResizeResult{ID: "r1"}}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, newEngine(&fakeRunner{}, tt.store, nil), http.MethodGet, "/api/v1/images/last", "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLastResultNotConfiguredMessage(t *testing.T) {
	store := &fakeStore{err: storage.ErrNotConfigured}
	_, resp := do(t, newEngine(&fakeRunner{}, store, nil), http.MethodGet, "/api/v1/images/last", "")
	assert.Equal(t, "Result cache not configured", resp.Error)
}

func TestEnqueueJobEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		w, _ := do(t, newEngine(jobRunner(), nil, nil), http.MethodPost, "/api/v1/images/jobs",
			`{"source_path":"/data/rich-menu/a.png","destination_path":"/data/rich-menu/b.png"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("missing destination", func(t *testing.T) {
		q := &fakeQueue{}
		w, _ := do(t, newEngine(jobRunner(), nil, q), http.MethodPost, "/api/v1/images/jobs",
			`{"source_path":"/data/rich-menu/a.png"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, q.jobs)
	})

	t.Run("accepted", func(t *testing.T) {
		q := &fakeQueue{}
		w, resp := do(t, newEngine(jobRunner(), nil, q), http.MethodPost, "/api/v1/images/jobs",
			`{"source_path":"/data/rich-menu/a.png","destination_path":"/data/rich-menu/b.png","size":{"width":520,"height":520}}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.True(t, resp.Success)
		require.Len(t, q.jobs, 1)
		assert.Equal(t, "/data/rich-menu/a.png", q.jobs[0].SourcePath)
		assert.Equal(t, models.ResizeSize{Width: 520, Height: 520}, q.jobs[0].Size)
	})

	t.Run("publish failure", func(t *testing.T) {
		q := &fakeQueue{err: errors.New("channel closed")}
		w, _ := do(t, newEngine(jobRunner(), nil, q), http.MethodPost, "/api/v1/images/jobs",
			`{"source_path":"/data/rich-menu/a.png","destination_path":"/data/rich-menu/b.png"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEnqueueJobRejectsPathsOutsideImageDirectory(t *testing.T) {
	bodies := map[string]string{
		"absolute destination": `{"source_path":"/data/rich-menu/a.png","destination_path":"/etc/cron.d/x.png"}`,
		"absolute source":      `{"source_path":"/etc/passwd.png","destination_path":"/data/rich-menu/b.png"}`,
		"dot dot":              `{"source_path":"/data/rich-menu/a.png","destination_path":"/data/rich-menu/../../tmp/x.png"}`,
		"sibling directory":    `{"source_path":"/data/rich-menu/a.png","destination_path":"/data/rich-menu-2/x.png"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			q := &fakeQueue{}
			w, resp := do(t, newEngine(jobRunner(), nil, q), http.MethodPost, "/api/v1/images/jobs", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, resp.Error, "outside the image directory")
			assert.Empty(t, q.jobs)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	runner := &fakeRunner{cfg: config.ResizeConfig{SourcePath: "/definitely/not/here.png"}}

	t.Run("nothing configured", func(t *testing.T) {
		w, resp := do(t, newEngine(runner, nil, nil), http.MethodGet, "/api/v1/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, models.Healthy, data["status"])
		assert.Equal(t, "missing", data["source"])
		assert.NotContains(t, data, "stats")
	})

	t.Run("stats", func(t *testing.T) {
		store := &fakeStore{
			health: map[string]string{"redis": models.Healthy},
			stats:  map[string]interface{}{"db_keys": 3},
		}
		q := &fakeQueue{health: models.Healthy, stats: map[string]interface{}{"messages": 2}}
		w, resp := do(t, newEngine(runner, store, q), http.MethodGet, "/api/v1/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		data := resp.Data.(map[string]interface{})
		stats := data["stats"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"db_keys": float64(3)}, stats["cache"])
		assert.Equal(t, map[string]interface{}{"messages": float64(2)}, stats["queue"])
	})

	t.Run("unhealthy backend", func(t *testing.T) {
		store := &fakeStore{health: map[string]string{"redis": "unhealthy: refused", "supabase": models.Healthy}}
		q := &fakeQueue{health: models.Healthy}
		w, resp := do(t, newEngine(runner, store, q), http.MethodGet, "/api/v1/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, resp.Success)
	})
}

func TestRootAndRecovery(t *testing.T) {
	engine := newEngine(&fakeRunner{}, nil, nil)

	w, _ := do(t, engine, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	engine.GET("/panic", func(*gin.Context) { panic("boom") })
	w, resp := do(t, engine, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Error)
}
