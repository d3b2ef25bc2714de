package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ActivitiesLogged counts parsed activity logs by category and parser source.
	ActivitiesLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_logged_total",
			Help: "Total activities logged, by category and parser source",
		},
		[]string{"category", "source"},
	)

	// ChestOpens counts loot chest openings by the rarity that dropped.
	ChestOpens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chest_opens_total",
			Help: "Total loot chest openings, by item rarity",
		},
		[]string{"rarity"},
	)

	// CreditsEarned counts chest credits granted across all users.
	CreditsEarned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chest_credits_earned_total",
		Help: "Total chest credits earned from productive time",
	})
)

func Init() {
	prometheus.MustRegister(httpReqs, httpDur, ActivitiesLogged, ChestOpens, CreditsEarned)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get route pattern if available
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
