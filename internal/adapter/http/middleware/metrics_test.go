package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/api/v1/accounts/42", "/api/v1/accounts/:client"},
		{"/api/v1/accounts/65535", "/api/v1/accounts/:client"},
		{"/api/v1/stats", "/api/v1/stats"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsRecordsStatus(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped status to pass through, got %d", rec.Code)
	}
}
