package rest

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// Server serves the game HTTP API over an app.Service.
type Server struct {
	service *app.Service
	logger  zerolog.Logger
}

// NewServer builds a Server over the provided application service.
func NewServer(service *app.Service, logger zerolog.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("app service is required")
	}
	return &Server{service: service, logger: logger}, nil
}

// Handler returns the routed handler wrapped with request id
// injection, panic recovery, request logging, and OTel tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	handler := chain(mux, requestID(), s.recoverPanic(), s.logRequests())
	return otelhttp.NewHandler(handler, "game-api")
}

// middleware wraps an HTTP handler.
type middleware func(http.Handler) http.Handler

// chain applies middleware in declaration order.
func chain(handler http.Handler, mws ...middleware) http.Handler {
	wrapped := handler
	for idx := len(mws) - 1; idx >= 0; idx-- {
		wrapped = mws[idx](wrapped)
	}
	return wrapped
}

var requestIDCounter atomic.Uint64

// requestID injects and echoes a request id for correlation. Events
// appended on behalf of the request carry the same id.
func requestID() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = fmt.Sprintf("game-%d-%d", time.Now().UnixNano(), requestIDCounter.Add(1))
				r.Header.Set(headerRequestID, id)
			}
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r)
		})
	}
}

// recoverPanic converts panics into HTTP 500 responses.
func (s *Server) recoverPanic() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					s.logger.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("request_id", requestIDFrom(r)).
						Interface("panic", recovered).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			entry := s.logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", requestIDFrom(r)).
				Int("status", rec.status).
				Dur("duration", time.Since(start))
			if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
				entry = entry.
					Str("trace_id", sc.TraceID().String()).
					Str("span_id", sc.SpanID().String())
			}
			entry.Msg("request handled")
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
