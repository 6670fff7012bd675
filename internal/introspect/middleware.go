package introspect

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"
)

type requestCtxKey struct{}

// requestCtx carries request metadata through the middleware stack in a
// single context.WithValue call.
type requestCtx struct {
	RequestID string
	StartTime time.Time
}

// RequestIDFromContext retrieves the request id set by CoreMiddleware, if any.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestCtxKey{}); v != nil {
		return v.(*requestCtx).RequestID
	}
	return ""
}

var rwPool = sync.Pool{
	New: func() interface{} { return &responseWriter{} },
}

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) reset(w http.ResponseWriter) {
	rw.ResponseWriter = w
	rw.statusCode = http.StatusOK
	rw.bytesWritten = 0
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// CoreMiddleware collapses recovery, request-id assignment, and access
// logging into a single handler with one pooled response writer and one
// context value.
func CoreMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := rwPool.Get().(*responseWriter)
			rw.reset(w)
			defer rwPool.Put(rw)

			reqCtx := &requestCtx{RequestID: generateRequestID(), StartTime: time.Now()}
			ctx := context.WithValue(r.Context(), requestCtxKey{}, reqCtx)
			r = r.WithContext(ctx)

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in introspect handler",
						"request_id", reqCtx.RequestID, "panic", rec, "stack", string(debug.Stack()))
					if rw.bytesWritten == 0 {
						rw.WriteHeader(http.StatusInternalServerError)
					}
				}
				logger.Debug("introspect request",
					"request_id", reqCtx.RequestID,
					"method", r.Method, "path", r.URL.Path,
					"status", rw.statusCode, "bytes", rw.bytesWritten,
					"duration", time.Since(reqCtx.StartTime))
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
