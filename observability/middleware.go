package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with the chi request id.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				String("method", r.Method),
				String("path", r.URL.Path),
				Int("status", ww.Status()),
				Int("bytes", ww.BytesWritten()),
				Duration("duration", time.Since(start)),
				String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
