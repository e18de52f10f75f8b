package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/VitaminP8/yatube/internal/monitoring"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Metrics считает запросы и их длительность по шаблону маршрута,
// чтобы /posts/1/ и /posts/2/ попадали в одну серию.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			// Skip collecting metrics from metrics endpoint itself
			next.ServeHTTP(w, r)
			return
		}

		monitoring.ActiveConnections.Inc()
		defer monitoring.ActiveConnections.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		monitoring.HttpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		monitoring.HttpRequestsTotal.WithLabelValues(route, strconv.Itoa(status(ww))).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func status(ww chimw.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
