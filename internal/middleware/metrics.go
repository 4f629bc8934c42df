package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/halvarsson/hemma/internal/metrics"
)

// Metrics records request counts and latency per method.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		class := strconv.Itoa(rec.status/100) + "xx"
		metrics.HTTPRequests.WithLabelValues(r.Method, class).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
