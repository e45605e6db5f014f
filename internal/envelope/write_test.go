package envelope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrite(t *testing.T) {
	b := newTestBuilder()
	rec := httptest.NewRecorder()

	if err := Write(rec, b.NotFound()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Code != "404.addrbook.4040" {
		t.Errorf("expected code 404.addrbook.4040, got %s", body.Code)
	}
	if body.Message != "Information not found" {
		t.Errorf("unexpected message: %s", body.Message)
	}
}
