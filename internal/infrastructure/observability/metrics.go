// Package observability provides the Prometheus metrics collector and the
// HTTP middleware that feeds it. The collector doubles as the recorder the
// mutation controllers and canvas service report into, so generation
// lifecycle metrics need no extra wiring.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loreweave-backend/internal/application/ports"
)

var (
	// Process-wide collector so repeated construction in tests never
	// double-registers with a registry.
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Generation lifecycle metrics
	GenerationsBegun   *prometheus.CounterVec
	GenerationsSettled *prometheus.CounterVec
	LoadingFloorWait   *prometheus.HistogramVec

	// Canvas size gauges
	CanvasNodes *prometheus.GaugeVec
	CanvasEdges *prometheus.GaugeVec
}

// NewCollector creates the metrics collector with the given namespace. The
// first call wins; later calls return the same instance.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	generationsBegun := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_begun_total",
			Help:      "Total number of generation operations triggered",
		},
		[]string{"kind"},
	)

	generationsSettled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_settled_total",
			Help:      "Total number of generation operations settled, by terminal status",
		},
		[]string{"kind", "status"},
	)

	floorWait := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "loading_floor_wait_seconds",
			Help:      "Time settlements spent held back by the minimum loading duration",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3},
		},
		[]string{"kind"},
	)

	canvasNodes := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "canvas_nodes",
			Help:      "Current number of nodes per canvas",
		},
		[]string{"canvas_id"},
	)

	canvasEdges := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "canvas_edges",
			Help:      "Current number of edges per canvas",
		},
		[]string{"canvas_id"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		generationsBegun,
		generationsSettled,
		floorWait,
		canvasNodes,
		canvasEdges,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		GenerationsBegun:   generationsBegun,
		GenerationsSettled: generationsSettled,
		LoadingFloorWait:   floorWait,
		CanvasNodes:        canvasNodes,
		CanvasEdges:        canvasEdges,
	}

	return globalCollector
}

// ResetForTesting resets the global collector for testing purposes
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// MutationBegun records a triggered generation operation.
func (c *Collector) MutationBegun(kind string) {
	c.GenerationsBegun.WithLabelValues(kind).Inc()
}

// MutationSettled records a terminal settlement.
func (c *Collector) MutationSettled(kind string, status ports.OperationStatus) {
	c.GenerationsSettled.WithLabelValues(kind, string(status)).Inc()
}

// FloorWait records how long a settlement was held back to honor the
// minimum loading duration.
func (c *Collector) FloorWait(kind string, wait time.Duration) {
	c.LoadingFloorWait.WithLabelValues(kind).Observe(wait.Seconds())
}

// CanvasResized updates the size gauges for one canvas.
func (c *Collector) CanvasResized(canvasID string, nodes, edges int) {
	c.CanvasNodes.WithLabelValues(canvasID).Set(float64(nodes))
	c.CanvasEdges.WithLabelValues(canvasID).Set(float64(edges))
}

// CanvasDropped removes the gauges of a deleted canvas so the label set
// does not grow without bound.
func (c *Collector) CanvasDropped(canvasID string) {
	c.CanvasNodes.DeleteLabelValues(canvasID)
	c.CanvasEdges.DeleteLabelValues(canvasID)
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
