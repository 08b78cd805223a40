package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the renderer and its control API.
// Its ObserveBlock, FrameInstalled, FrameRejected and RenderRecovered methods
// make it usable as an engine observer.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	blocksTotal     prometheus.Counter
	samplesTotal    prometheus.Counter
	renderSeconds   prometheus.Histogram
	framesInstalled prometheus.Counter
	framesRejected  prometheus.Counter
	renderFaults    prometheus.Counter
	liveShapes      prometheus.Gauge
	storedFrames    prometheus.Gauge
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oscirender_http_requests_total",
			Help: "Total number of control API requests received, by route pattern",
		}, []string{"route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oscirender_http_errors_total",
			Help: "Total number of control API responses with error status (4xx or 5xx), by route pattern",
		}, []string{"route"}),
		blocksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oscirender_render_blocks_total",
			Help: "Total number of audio blocks rendered",
		}),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oscirender_render_frames_total",
			Help: "Total number of X/Y sample frames rendered",
		}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oscirender_render_block_seconds",
			Help:    "Time spent rendering one audio block, lock wait included",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		framesInstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oscirender_frames_installed_total",
			Help: "Total number of shape sequences made live",
		}),
		framesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oscirender_frames_rejected_total",
			Help: "Total number of frames or shapes rejected as empty or degenerate",
		}),
		renderFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oscirender_render_faults_total",
			Help: "Total number of blocks that held the last output after a fault",
		}),
		liveShapes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oscirender_live_shapes",
			Help: "Number of shapes in the live sequence",
		}),
		storedFrames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oscirender_stored_frames",
			Help: "Number of frames held in the frame library",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.blocksTotal,
		m.samplesTotal,
		m.renderSeconds,
		m.framesInstalled,
		m.framesRejected,
		m.renderFaults,
		m.liveShapes,
		m.storedFrames,
	)
	return m
}

// IncRequests counts a request against route.
func (m *Metrics) IncRequests(route string) {
	m.requestsTotal.WithLabelValues(route).Inc()
}

// IncErrors counts an error response against route.
func (m *Metrics) IncErrors(route string) {
	m.errorsTotal.WithLabelValues(route).Inc()
}

// ObserveBlock records one rendered block.
func (m *Metrics) ObserveBlock(frames int, elapsed time.Duration) {
	m.blocksTotal.Inc()
	m.samplesTotal.Add(float64(frames))
	m.renderSeconds.Observe(elapsed.Seconds())
}

// FrameInstalled records a sequence swap and updates the live shape gauge.
func (m *Metrics) FrameInstalled(shapes int) {
	m.framesInstalled.Inc()
	m.liveShapes.Set(float64(shapes))
}

// FrameRejected increments the rejected frame counter.
func (m *Metrics) FrameRejected() {
	m.framesRejected.Inc()
}

// RenderRecovered increments the render fault counter.
func (m *Metrics) RenderRecovered() {
	m.renderFaults.Inc()
}

// SetLiveShapes sets the live shape gauge.
func (m *Metrics) SetLiveShapes(n int) {
	m.liveShapes.Set(float64(n))
}

// SetStoredFrames sets the frame library gauge.
func (m *Metrics) SetStoredFrames(n int) {
	m.storedFrames.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
