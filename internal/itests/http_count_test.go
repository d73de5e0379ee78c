//go:build integration

package itests

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_Count_Products(t *testing.T) {
	status, b := postJSON(t, "/api/count/products", map[string]any{"search": "widget"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d. body=%s", status, string(b))
	}

	var out struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("invalid JSON response: %v; body=%s", err, string(b))
	}
	// Widget, Gadget (description), wIDGET pro; Old widget is soft-deleted
	if out.Data.Count != 3 {
		t.Fatalf("wrong count: got %d, want 3; body=%s", out.Data.Count, string(b))
	}
}

func Test_Count_UnknownEntity(t *testing.T) {
	status, _ := postJSON(t, "/api/count/people", map[string]any{})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}
