package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Envelope(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "x") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { WriteUnauthorized(w, "x") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"token expired", func(w http.ResponseWriter) { WriteUnauthorizedWithCode(w, ErrCodeTokenExpired, "x") }, http.StatusUnauthorized, ErrCodeTokenExpired},
		{"forbidden", func(w http.ResponseWriter) { WriteForbidden(w, "x") }, http.StatusForbidden, ErrCodeForbidden},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "x") }, http.StatusNotFound, ErrCodeNotFound},
		{"rate limited", func(w http.ResponseWriter) { WriteTooManyRequests(w, "x") }, http.StatusTooManyRequests, ErrCodeRateLimited},
		{"internal", func(w http.ResponseWriter) { WriteInternalError(w, "x") }, http.StatusInternalServerError, ErrCodeInternal},
		{"unavailable", func(w http.ResponseWriter) { WriteServiceUnavailable(w, "x") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != "x" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
