package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

type noteKey struct{}

// requestNote collects details handlers want in the request log line.
type requestNote struct {
	err error
}

func noteError(r *http.Request, err error) {
	if n, ok := r.Context().Value(noteKey{}).(*requestNote); ok {
		n.err = err
	}
}

// requestLogger logs one line per request and feeds the request metrics.
func requestLogger(logger *log.Logger, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			note := &requestNote{}
			rw := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), noteKey{}, note)))

			if rw.status == 0 {
				rw.status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			if m != nil {
				m.observeRequest(r.Method, route, rw.status, elapsed)
			}

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"bytes", rw.bytes,
				"duration", elapsed.Round(time.Microsecond),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				kv = append(kv, "request_id", id)
			}
			switch {
			case rw.status >= http.StatusInternalServerError:
				logger.Error("request failed", append(kv, "err", note.err)...)
			case note.err != nil:
				logger.Debug("request rejected", append(kv, "err", note.err)...)
			default:
				logger.Info("request", kv...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
