// internal/api/handler/health_test.go
package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/whitmore/dripline/internal/api/response"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler("1.2.3")

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["status"] != "ok" {
		t.Errorf("expected ok status, got %v", data["status"])
	}
	if data["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %v", data["version"])
	}
}
