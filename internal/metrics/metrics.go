package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homekeep_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homekeep_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "homekeep_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})

	generatedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homekeep_generated_records_total",
			Help: "Records produced by default generation, by kind and home type.",
		},
		[]string{"kind", "home_type"},
	)
)

// EquipmentDB is the subset of db.DB needed to collect equipment metrics.
type EquipmentDB interface {
	CountEquipmentByCategory() (map[string]int, error)
}

// equipmentCollector queries the database on each scrape to report active
// equipment counts broken down by category.
type equipmentCollector struct {
	db   EquipmentDB
	desc *prometheus.Desc
}

func newEquipmentCollector(db EquipmentDB) *equipmentCollector {
	return &equipmentCollector{
		db: db,
		desc: prometheus.NewDesc(
			"homekeep_equipment_total",
			"Number of active equipment records, partitioned by category.",
			[]string{"category"},
			nil,
		),
	}
}

func (c *equipmentCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *equipmentCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountEquipmentByCategory()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	for category, n := range counts {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), category)
	}
}

// Register registers all metrics with reg. Call once at startup after the
// database is initialised.
func Register(reg prometheus.Registerer, db EquipmentDB) {
	reg.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		generatedRecords,
		newEquipmentCollector(db),
	)
}

// RecordGenerated counts n generated records of kind ("equipment" or "task").
func RecordGenerated(kind, homeType string, n int) {
	generatedRecords.WithLabelValues(kind, homeType).Add(float64(n))
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics.
// pattern should be the route pattern string (e.g. "GET /api/v1/homes/{id}")
// so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
