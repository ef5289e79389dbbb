// Package metrics concentra las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa el registro y los colectores de HTTP y de negocio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Eventos de negocio por tipo (receiving.scanned, shipment.shipped, ...).
	BusinessEvents *prometheus.CounterVec
	// Unidades escaneadas (con signo) confirmadas en recepciones.
	ReceivedUnits prometheus.Counter
	// Eventos que no pudieron entregarse a un sumidero.
	NotifyFailures *prometheus.CounterVec
}

// New crea el registro con colectores de Go y de proceso.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "warehouse_ops"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requests HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de los requests HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.BusinessEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_events_total",
			Help:      "Eventos de negocio publicados por tipo",
		},
		[]string{"type"},
	)
	m.ReceivedUnits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_units_total",
			Help:      "Unidades cargadas al stock por recepciones confirmadas",
		},
	)
	m.NotifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Eventos que un sumidero no pudo aceptar",
		},
		[]string{"type"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BusinessEvents,
		m.ReceivedUnits,
		m.NotifyFailures,
	)
	return m
}

// Handler devuelve el handler HTTP del endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registro Prometheus.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra un request atendido.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEvent cuenta un evento de negocio.
func (m *Metrics) RecordEvent(eventType string) {
	m.BusinessEvents.WithLabelValues(eventType).Inc()
}

// RecordReceivedUnits suma unidades confirmadas en una recepción.
func (m *Metrics) RecordReceivedUnits(n int) {
	if n > 0 {
		m.ReceivedUnits.Add(float64(n))
	}
}

// RecordNotifyFailure cuenta un evento no entregado.
func (m *Metrics) RecordNotifyFailure(eventType string) {
	m.NotifyFailures.WithLabelValues(eventType).Inc()
}
