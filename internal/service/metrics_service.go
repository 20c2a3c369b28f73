package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	processesOpened prometheus.Counter
	processesClosed *prometheus.CounterVec
	backupDuration  prometheus.Histogram
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	processesOpened := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "processes_opened_total",
		Help: "Total candidate processes opened",
	})

	processesClosed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "processes_closed_total",
		Help: "Total candidate processes closed, by terminal status",
	}, []string{"status"})

	backupDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "backup_duration_seconds",
		Help:    "Duration of backup runs",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, processesOpened, processesClosed, backupDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		processesOpened: processesOpened,
		processesClosed: processesClosed,
		backupDuration:  backupDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one finished request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveProcessOpened counts one new process.
func (m *MetricsService) ObserveProcessOpened() {
	if m == nil {
		return
	}
	m.processesOpened.Inc()
}

// ObserveProcessClosed counts one closed process by its terminal status.
func (m *MetricsService) ObserveProcessClosed(status string) {
	if m == nil {
		return
	}
	m.processesClosed.WithLabelValues(status).Inc()
}

// ObserveBackup records one backup run.
func (m *MetricsService) ObserveBackup(duration time.Duration) {
	if m == nil {
		return
	}
	m.backupDuration.Observe(duration.Seconds())
}
