package middleware

import (
	"context"
	"net/http"
)

// callerIDKey is the context key for the authenticated caller id.
type callerIDKey struct{}

// CallerIDHeader carries the authenticated caller id set by the upstream
// auth gateway. Authentication itself happens before requests reach this
// service; this middleware only propagates the already-verified identity.
const CallerIDHeader = "X-Forgeplay-Caller"

// SetCallerID stores the caller id in the context.
func SetCallerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerIDKey{}, id)
}

// GetCallerID retrieves the caller id from context. Returns empty string
// if not present.
func GetCallerID(ctx context.Context) string {
	if id, ok := ctx.Value(callerIDKey{}).(string); ok {
		return id
	}
	return ""
}

// CallerID copies the gateway-supplied caller header into the request
// context. Requests without the header proceed anonymously; ownership
// checks downstream reject them where identity is required.
func CallerID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(CallerIDHeader); id != "" {
			r = r.WithContext(SetCallerID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
