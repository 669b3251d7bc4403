package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "dompet/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader carries the request id back to the client.
	RequestIDHeader = "X-Request-ID"
)

// Middleware assigns request ids and logs every request.
type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string
	total     atomic.Int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &Middleware{
		logger:    logger.WithComponent(applog.ComponentTrace),
		extractIP: extractIP,
	}
}

// Middleware returns HTTP middleware for request tracing. The request
// context carries the id and a logger enriched with it.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		sl := applog.NewStructuredLogger(applog.FromContext(ctx))
		sl.LogHTTPStart(ctx, r, clientIP)
		m.total.Add(1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
	withLogger := applog.Middleware(m.logger)(
		applog.RequestIDMiddleware(requestIDFromRequest)(logged))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GenerateRequestID()
		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		withLogger.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// TotalRequests returns the number of requests seen.
func (m *Middleware) TotalRequests() int64 {
	return m.total.Load()
}
