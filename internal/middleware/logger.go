package middleware

import (
	"net/http"
	"strings"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/hanko-theme/internal/observability"
)

// InjectLogger stores logger on the request context for downstream handlers.
func InjectLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := observability.WithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger emits one structured log entry per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := chiMid.GetReqID(r.Context())
		logger := observability.FromContext(r.Context()).With(
			zap.String("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		r = r.WithContext(observability.WithLogger(r.Context(), logger))

		rw := NewResponseRecorder(w)
		next.ServeHTTP(rw, r)

		fields := []zap.Field{
			zap.Int("status", rw.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", clientIP(r)),
		}
		switch {
		case rw.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case rw.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
