package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ============================================================================
// Create Validation Tests
// ============================================================================

func TestReviewCreate_UnknownType_ReturnsFieldError(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(nil)
	req := makeJSONRequest(http.MethodPost, "/api/avaliacoes",
		`{"type":"rant","title":"Título","message":"Mensagem"}`)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	apiErr := parseFailure(t, rr.Body.Bytes())
	if !hasField(apiErr.Errors, "type") {
		t.Errorf("expected type error, got %v", fieldNames(apiErr.Errors))
	}
}

func TestReviewCreate_RatingOutOfRange_ReturnsFieldError(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(nil)
	req := makeJSONRequest(http.MethodPost, "/api/avaliacoes",
		`{"type":"praise","title":"Ótimo","message":"Adorei as aulas","rating":6}`)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	apiErr := parseFailure(t, rr.Body.Bytes())
	if !hasField(apiErr.Errors, "rating") {
		t.Errorf("expected rating error, got %v", fieldNames(apiErr.Errors))
	}
}

// ============================================================================
// Respond Tests
// ============================================================================

func TestReviewRespond_NoAuth_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(nil)
	req := makeJSONRequest(http.MethodPut, "/api/avaliacoes/r1/responder", `{"response":"Obrigado!"}`)
	req.SetPathValue("id", "review:r1")
	rr := httptest.NewRecorder()

	h.Respond(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestReviewRespond_NoResponseNoDraft_ReturnsFieldError(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(nil)
	req := makeJSONRequest(http.MethodPut, "/api/avaliacoes/r1/responder", `{}`)
	req.SetPathValue("id", "review:r1")
	req = withClaims(req, "staff:ana", "staff")
	rr := httptest.NewRecorder()

	h.Respond(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	apiErr := parseFailure(t, rr.Body.Bytes())
	if !hasField(apiErr.Errors, "response") {
		t.Errorf("expected response error, got %v", fieldNames(apiErr.Errors))
	}
}

// ============================================================================
// Filter Parsing Tests
// ============================================================================

func TestReviewList_UnknownTipo_ReturnsFieldError(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/avaliacoes?tipo=desabafo", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	apiErr := parseFailure(t, rr.Body.Bytes())
	if !hasField(apiErr.Errors, "tipo") {
		t.Errorf("expected tipo error, got %v", fieldNames(apiErr.Errors))
	}
}

func TestReviewFiltersFromQuery_ValidFilters_Parsed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet,
		"/api/avaliacoes?status=pending&tipo=praise&idAtividade=activity:swim", nil)

	filters, apiErr := reviewFiltersFromQuery(req)
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if filters.Status == nil || *filters.Status != "pending" {
		t.Error("expected status filter")
	}
	if filters.Type == nil || *filters.Type != "praise" {
		t.Error("expected type filter")
	}
	if filters.ActivityID == nil || *filters.ActivityID != "activity:swim" {
		t.Error("expected activity filter")
	}
}
