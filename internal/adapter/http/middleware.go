package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/observability"
)

// requestLogger logs each request and counts it by method and status.
func requestLogger(next http.Handler, metrics *observability.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(ww.status)).Inc()
		logger.Debug("request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start),
		)
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
