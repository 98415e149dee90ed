package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder registra métricas de las llamadas salientes al backend de catálogo.
// Un Recorder nil es válido y no registra nada (útil en tests).
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New crea el Recorder con su propio registro Prometheus.
func New(service string) *Recorder {
	labels := prometheus.Labels{"service": service}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "catalog_api_requests_total",
		Help:        "Total de peticiones al backend de catálogo por operación y estado HTTP",
		ConstLabels: labels,
	}, []string{"operation", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "catalog_api_request_duration_seconds",
		Help:        "Duración de las peticiones al backend de catálogo",
		ConstLabels: labels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"operation"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		requests,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		registry: registry,
		requests: requests,
		duration: duration,
	}
}

// Observe registra una llamada terminada. status 0 indica fallo de transporte
// (la petición nunca obtuvo respuesta HTTP).
func (r *Recorder) Observe(operation string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	code := "transport_error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.requests.WithLabelValues(operation, code).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus (para montar en /metrics).
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
