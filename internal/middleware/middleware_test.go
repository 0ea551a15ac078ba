package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("request id not injected into context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header = %q, want context value %q", got, seen)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "upstream-id-42" {
		t.Errorf("request id = %q, want the inbound header preserved", seen)
	}
}

func TestCallerID(t *testing.T) {
	var seen string
	handler := CallerID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCallerID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CallerIDHeader, "creator-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "creator-1" {
		t.Errorf("caller id = %q, want creator-1", seen)
	}

	// Without the header the request proceeds anonymously.
	seen = "sentinel"
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != "" {
		t.Errorf("caller id = %q, want empty for anonymous request", seen)
	}
}

func TestLogging_ErrorCode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetResponseErrorCode(w, "invalid_range")
		w.WriteHeader(http.StatusBadRequest)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/creators/c1/dashboard", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["status"] != float64(http.StatusBadRequest) {
		t.Errorf("status = %v, want 400", entry["status"])
	}
	if entry["error_code"] != "invalid_range" {
		t.Errorf("error_code = %v, want invalid_range", entry["error_code"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for 4xx", entry["level"])
	}
}

func TestLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.WriteString(w, `{"ok":true}`); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if _, ok := entry["error_code"]; ok {
		t.Error("error_code present on a successful request")
	}
}

func TestSetResponseErrorCode_UnwrappedWriter(t *testing.T) {
	// Must not panic on a plain ResponseWriter.
	SetResponseErrorCode(httptest.NewRecorder(), "not_found")
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root", "/", "/"},
		{"health", "/health", "/health"},
		{"metrics", "/metrics", "/metrics"},
		{"creator dashboard", "/creators/abc123/dashboard", "/creators/{id}/dashboard"},
		{"creator popular", "/creators/abc123/popular", "/creators/{id}/popular"},
		{"top followers", "/creators/abc123/followers/top", "/creators/{id}/followers/top"},
		{"creator root", "/creators/abc123", "/creators/{id}"},
		{"game analytics", "/games/g42/analytics", "/games/{id}/analytics"},
		{"game root", "/games/g42", "/games/{id}"},
		{"unknown passthrough", "/totally/unknown", "/totally/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.in); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
