package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code, response
// size, and the error code a handler reports for the log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	errorCode   string
	wroteHeader bool
}

// WriteHeader captures the status code before writing it. Only the first
// call sets the status code; subsequent calls are ignored to match
// http.ResponseWriter behavior where only the first status is sent.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) setErrorCode(code string) {
	rw.errorCode = code
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// errorCoder is implemented by the logging middleware's response writer so
// error responses can attach their machine code to the request log line.
type errorCoder interface {
	setErrorCode(code string)
}

// SetResponseErrorCode records an error code on the response writer for
// the logging middleware to pick up. It is a no-op when the writer is not
// wrapped by Logging (for example in bare handler tests).
func SetResponseErrorCode(w http.ResponseWriter, code string) {
	if ec, ok := w.(errorCoder); ok {
		ec.setErrorCode(code)
	}
}

// NewLogger creates an slog.Logger based on the environment. In production
// it returns a JSON handler; otherwise a text handler for development.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// Logging logs each request with structured fields: method, path, status,
// latency (ms), response size, request id, caller id, and the error code
// for 4xx/5xx responses.
//
// Note: if a handler panics, the log entry will not be written. Place a
// recovery middleware outside of the logging middleware to log panics too.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
				slog.Int("size", rw.size),
			}
			if requestID := GetRequestID(r.Context()); requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}
			if callerID := GetCallerID(r.Context()); callerID != "" {
				attrs = append(attrs, slog.String("caller_id", callerID))
			}
			if rw.statusCode >= 400 && rw.errorCode != "" {
				attrs = append(attrs, slog.String("error_code", rw.errorCode))
			}

			switch {
			case rw.statusCode >= 500:
				logger.LogAttrs(r.Context(), slog.LevelError, "request completed", attrs...)
			case rw.statusCode >= 400:
				logger.LogAttrs(r.Context(), slog.LevelWarn, "request completed", attrs...)
			default:
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request completed", attrs...)
			}
		})
	}
}
