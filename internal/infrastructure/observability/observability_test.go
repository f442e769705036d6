package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loreweave-backend/internal/application/mutation"
	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/application/services"
)

// The collector doubles as both lifecycle recorders.
var (
	_ mutation.Recorder      = (*Collector)(nil)
	_ services.GraphRecorder = (*Collector)(nil)
)

func newTestCollector() *Collector {
	ResetForTesting()
	return NewCollector("loreweave_test")
}

func TestCollector_GenerationLifecycle(t *testing.T) {
	collector := newTestCollector()

	collector.MutationBegun("character")
	collector.MutationBegun("character")
	collector.MutationSettled("character", ports.OperationStatusSuccess)
	collector.MutationSettled("character", ports.OperationStatusError)
	collector.FloorWait("character", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.GenerationsBegun.WithLabelValues("character")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.GenerationsSettled.WithLabelValues("character", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.GenerationsSettled.WithLabelValues("character", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.LoadingFloorWait))
}

func TestCollector_CanvasGauges(t *testing.T) {
	collector := newTestCollector()

	collector.CanvasResized("canvas-1", 8, 7)
	assert.Equal(t, 8.0, testutil.ToFloat64(collector.CanvasNodes.WithLabelValues("canvas-1")))
	assert.Equal(t, 7.0, testutil.ToFloat64(collector.CanvasEdges.WithLabelValues("canvas-1")))

	collector.CanvasResized("canvas-1", 9, 7)
	assert.Equal(t, 9.0, testutil.ToFloat64(collector.CanvasNodes.WithLabelValues("canvas-1")))

	collector.CanvasDropped("canvas-1")
	assert.Zero(t, testutil.CollectAndCount(collector.CanvasNodes))
	assert.Zero(t, testutil.CollectAndCount(collector.CanvasEdges))
}

func TestCollector_SharedInstance(t *testing.T) {
	first := newTestCollector()
	second := NewCollector("ignored")
	assert.Same(t, first, second)
}

func TestMetricsMiddleware(t *testing.T) {
	collector := newTestCollector()

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(collector))
	router.Get("/api/v1/canvases/{canvasID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/canvases/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// The route label is the chi pattern, not the concrete path.
	got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/api/v1/canvases/{canvasID}", "200"))
	assert.Equal(t, 1.0, got)
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	collector := newTestCollector()
	collector.MutationBegun("world")

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loreweave_test_generations_begun_total")
}
