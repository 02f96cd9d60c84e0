package middleware

import (
	"net/http"
	"time"

	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to requests per window. scope labels the
// limiter in metrics and logs. Rejected requests get a 429 JSON error.
func RateLimit(requests int, window time.Duration, scope string) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(clientIPKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitedRequests.WithLabelValues(scope).Inc()
			debug.Warning("[RATE] %s limit exceeded by %s on %s %s", scope, ClientIP(r), r.Method, r.URL.Path)
			httputil.RespondWithErrorCode(w, http.StatusTooManyRequests, httputil.CodeRateLimited, "Too many requests, please slow down")
		}),
	)
}

func clientIPKey(r *http.Request) (string, error) {
	return ClientIP(r), nil
}
