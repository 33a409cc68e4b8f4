// Package metrics exposes Prometheus counters for the HTTP surface and the
// billing, imaging and document workflows.
package metrics

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dentalsoft"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	invoicesCreated     prometheus.Counter
	invoiceNumberRetry  prometheus.Counter
	paymentsRecorded    *prometheus.CounterVec
	paymentsAmount      *prometheus.CounterVec
	imagesImported      *prometheus.CounterVec
	documentsRendered   *prometheus.CounterVec
	documentRenderError *prometheus.CounterVec
	selectionChanges    *prometheus.CounterVec
}

// New creates the collectors and registers them on registry. A nil registry
// gets a fresh one with the Go and process collectors.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := &Metrics{registry: registry}
	m.init()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) init() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken for HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.invoicesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created",
	})
	m.invoiceNumberRetry = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoice_number_retries_total",
		Help:      "Invoice number collisions that triggered a retry",
	})
	m.paymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Total number of payments recorded",
		},
		[]string{"method"},
	)
	m.paymentsAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_amount_total",
			Help:      "Sum of recorded payment amounts",
		},
		[]string{"method"},
	)
	m.imagesImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_imported_total",
			Help:      "Total number of imported images",
		},
		[]string{"format"},
	)
	m.documentsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Total number of rendered PDF documents",
		},
		[]string{"kind"},
	)
	m.documentRenderError = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_render_errors_total",
			Help:      "Total number of failed PDF renders",
		},
		[]string{"kind"},
	)
	m.selectionChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_changes_total",
			Help:      "Active patient changes",
		},
		[]string{"action"},
	)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.invoicesCreated,
		m.invoiceNumberRetry,
		m.paymentsRecorded,
		m.paymentsAmount,
		m.imagesImported,
		m.documentsRendered,
		m.documentRenderError,
		m.selectionChanges,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) InvoiceCreated() {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
}

func (m *Metrics) InvoiceNumberRetry() {
	if m == nil {
		return
	}
	m.invoiceNumberRetry.Inc()
}

func (m *Metrics) PaymentRecorded(method string, amount float64) {
	if m == nil {
		return
	}
	m.paymentsRecorded.WithLabelValues(method).Inc()
	m.paymentsAmount.WithLabelValues(method).Add(amount)
}

func (m *Metrics) ImageImported(format string) {
	if m == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	m.imagesImported.WithLabelValues(format).Inc()
}

// DocumentRendered counts a render attempt of the given kind.
func (m *Metrics) DocumentRendered(kind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.documentRenderError.WithLabelValues(kind).Inc()
		return
	}
	m.documentsRendered.WithLabelValues(kind).Inc()
}

// SelectionChanged counts a change of the active patient; id 0 is a clear.
func (m *Metrics) SelectionChanged(id uint) {
	if m == nil {
		return
	}
	action := "set"
	if id == 0 {
		action = "clear"
	}
	m.selectionChanges.WithLabelValues(action).Inc()
}
