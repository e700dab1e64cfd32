package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
)

// RateLimit rejects requests beyond the limiter's budget with 429 and a
// Retry-After header. A nil limiter disables limiting.
func RateLimit(limiter *rate.Limiter, adapter *derrors.HTTPErrorAdapter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if !res.OK() {
				writeTooMany(w, adapter, time.Second)
				return
			}
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				logger.Warn("Request rate limited",
					logfields.RequestID(RequestIDFrom(r.Context())),
					logfields.Path(r.URL.Path),
					slog.Duration("retry_after", delay))
				writeTooMany(w, adapter, delay)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter, adapter *derrors.HTTPErrorAdapter, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	body := adapter.FormatErrorResponse(derrors.RuntimeError("too many requests").
		WithContext("retry_after_seconds", secs).
		Build())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}
