package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recanto/api/internal/model"
)

// ============================================================================
// Envelope Tests
// ============================================================================

func TestWriteSuccess_WrapsDataInEnvelope(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteSuccess(rr, http.StatusOK, map[string]string{"name": "Natação"})

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp struct {
		Success    bool              `json:"success"`
		Data       map[string]string `json:"data"`
		Pagination *Pagination       `json:"pagination"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.Data["name"] != "Natação" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
	if resp.Pagination != nil {
		t.Error("expected no pagination on a single-resource response")
	}
}

func TestWritePage_IncludesPagination(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WritePage(rr, http.StatusOK, []string{"a", "b"}, 42, 20, 10)

	var resp struct {
		Success    bool        `json:"success"`
		Data       []string    `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Pagination == nil {
		t.Fatal("expected pagination")
	}
	if resp.Pagination.Total != 42 || resp.Pagination.Limit != 20 || resp.Pagination.Offset != 10 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestWriteError_EmitsFailureEnvelope(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, model.NewNotFoundError("activity"))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected success false")
	}
	if resp.Message != "activity not found" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

// ============================================================================
// DecodeJSON Tests
// ============================================================================

func TestDecodeJSON_UnknownField_ReturnsError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"idCliente":"c1","surprise":true}`))

	var payload model.CreateEnrollmentRequest
	if err := DecodeJSON(req, &payload); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

// ============================================================================
// Pagination Parsing Tests
// ============================================================================

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "limit=50&offset=30", 50, 30},
		{"limit above cap ignored", "limit=500", 20, 0},
		{"zero limit ignored", "limit=0", 20, 0},
		{"negative offset ignored", "offset=-5", 20, 0},
		{"garbage ignored", "limit=abc&offset=xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset := parsePagination(req)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}
