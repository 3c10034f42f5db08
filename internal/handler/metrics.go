package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/uclone1/yt-competitor-monitor/internal/service"
)

// Metrics holds all Prometheus collectors for the monitor.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
// Pipeline counters are read live from the worker via CounterFunc/GaugeFunc
// so the worker stays free of Prometheus types.
func InitMetrics(worker *service.MonitorWorker) {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytmonitor_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytmonitor_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)

	if worker == nil {
		return
	}

	prometheus.MustRegister(
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "ytmonitor_runs_total",
				Help: "Total completed monitoring runs.",
			},
			func() float64 { return float64(worker.RunsTotal()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "ytmonitor_fetch_errors_total",
				Help: "Total channel fetches that failed after all retries.",
			},
			func() float64 { return float64(worker.FetchErrorsTotal()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "ytmonitor_channels_fetched_total",
				Help: "Total channels successfully fetched across all runs.",
			},
			func() float64 { return float64(worker.ChannelsFetchedTotal()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "ytmonitor_cache_hits_total",
				Help: "Total Redis fetch-cache hits.",
			},
			func() float64 { return float64(worker.CacheHits()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "ytmonitor_cache_misses_total",
				Help: "Total Redis fetch-cache misses.",
			},
			func() float64 { return float64(worker.CacheMisses()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytmonitor_last_run_duration_seconds",
				Help: "Duration of the most recent monitoring run.",
			},
			func() float64 { return float64(worker.LastRunDurationSecs()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytmonitor_outperforming_videos",
				Help: "Outperforming videos found in the most recent run.",
			},
			func() float64 {
				report := worker.LatestReport()
				if report == nil {
					return 0
				}
				return float64(report.TotalOutperforming)
			},
		),
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(): Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	if strings.HasPrefix(path, "/api/channels/") {
		return "/api/channels/:handle"
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.Context())
		return nil
	}
}
