package middleware

import (
	"net/http"
	"time"

	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Router matches a request to its route pattern; *http.ServeMux satisfies it.
type Router interface {
	Handler(r *http.Request) (http.Handler, string)
}

// RequestLog attaches a request-scoped logger to the context, logs one line
// per request and counts it by route pattern.
func RequestLog(log zerolog.Logger, m *metrics.Metrics, routes Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			l := log.With().Str("request_id", reqID).Logger()
			r = r.WithContext(l.WithContext(r.Context()))
			w.Header().Set("X-Request-ID", reqID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if routes != nil {
				if _, p := routes.Handler(r); p != "" {
					route = p
				}
			}
			m.ObservePage(route, rec.status)
			ev := l.Info()
			if rec.status >= 500 {
				ev = l.Error()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
