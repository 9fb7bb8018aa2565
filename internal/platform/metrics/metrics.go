// Package metrics exposes the Prometheus metrics of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "langtogether"

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	reviews            *prometheus.CounterVec
	newWordsLearned    prometheus.Counter
	wordsReviewed      prometheus.Counter
	invitationsExpired prometheus.Counter
}

// New creates the collectors. Go runtime and process collectors are
// registered as well.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Committed card reviews by outcome.",
		}, []string{"outcome"}),
		newWordsLearned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "new_words_learned_total",
			Help:      "First reviews of progress cards.",
		}),
		wordsReviewed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_reviewed_total",
			Help:      "Successful repeat reviews of progress cards.",
		}),
		invitationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_expired_total",
			Help:      "Invitations removed by the expiry job.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReview records a committed review. Quality below 1 is a failed
// recall.
func (m *Metrics) ObserveReview(quality int, inc domain.StatIncrement) {
	outcome := "success"
	if quality < 1 {
		outcome = "failure"
	}
	m.reviews.WithLabelValues(outcome).Inc()
	if inc.IncrementNewWords {
		m.newWordsLearned.Inc()
	}
	if inc.IncrementReviewed {
		m.wordsReviewed.Inc()
	}
}

// InvitationsExpired records invitations removed by the expiry job.
func (m *Metrics) InvitationsExpired(n int64) {
	if n > 0 {
		m.invitationsExpired.Add(float64(n))
	}
}

// Middleware counts requests and their latency, labelled with the chi route
// pattern so that path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
