package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggerPreservesResponse(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/employees", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if rr.Body.String() != `{"id":"abc"}` {
		t.Fatalf("body altered: %q", rr.Body.String())
	}
}

func TestResponseRecorderCountsStatusAndBytes(t *testing.T) {
	rec := &responseRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusNotFound)
	if _, err := rec.Write([]byte("not found")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if rec.status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.status)
	}
	if rec.bytes != len("not found") {
		t.Fatalf("bytes = %d, want %d", rec.bytes, len("not found"))
	}
}
