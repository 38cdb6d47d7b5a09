package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/salesdeck/crm-backend/internal/leads"
)

func newTestHandler(t *testing.T) (*Handler, *Controller) {
	t.Helper()
	ctrl, _ := newTestController(t)
	return NewHandler(ctrl, nil), ctrl
}

func doRequest(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandlerGetBoard(t *testing.T) {
	h, ctrl := newTestHandler(t)
	addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var view View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.PipelineID != "sales" {
		t.Errorf("expected pipeline sales, got %q", view.PipelineID)
	}
	if view.TotalLeads != 1 {
		t.Errorf("expected 1 lead, got %d", view.TotalLeads)
	}
	if len(view.Stages) != 4 {
		t.Errorf("expected 4 stage columns, got %d", len(view.Stages))
	}
}

func TestHandlerCreateLead(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/leads",
		`{"name":"Dana Whitfield","email":"dana@example.com","stage":"contacted","score":70,"value":5000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created leads.Lead
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode lead: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated lead id")
	}
	if created.Stage != "contacted" {
		t.Errorf("expected stage contacted, got %q", created.Stage)
	}
	if created.PipelineID != "sales" {
		t.Errorf("expected pipeline sales, got %q", created.PipelineID)
	}
}

func TestHandlerCreateLeadValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing name", `{"email":"x@example.com"}`, http.StatusBadRequest},
		{"missing contact", `{"name":"X"}`, http.StatusBadRequest},
		{"score out of range", `{"name":"X","email":"x@example.com","score":101}`, http.StatusBadRequest},
		{"negative value", `{"name":"X","email":"x@example.com","value":-1}`, http.StatusBadRequest},
		{"foreign stage", `{"name":"X","email":"x@example.com","stage":"upcoming"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/leads", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlerMoveLead(t *testing.T) {
	h, ctrl := newTestHandler(t)
	created := addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodPost, "/leads/"+created.ID+"/move", `{"stage_id":"won"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var moved leads.Lead
	if err := json.NewDecoder(rec.Body).Decode(&moved); err != nil {
		t.Fatalf("failed to decode lead: %v", err)
	}
	if moved.Stage != "won" {
		t.Errorf("expected stage won, got %q", moved.Stage)
	}
}

func TestHandlerMoveLeadErrors(t *testing.T) {
	h, ctrl := newTestHandler(t)
	created := addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodPost, "/leads/missing/move", `{"stage_id":"won"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown lead: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/leads/"+created.ID+"/move", `{"stage_id":"nope"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown stage: expected 422, got %d", rec.Code)
	}
}

func TestHandlerUpdateLead(t *testing.T) {
	h, ctrl := newTestHandler(t)
	created := addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodPatch, "/leads/"+created.ID, `{"score":95}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated leads.Lead
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode lead: %v", err)
	}
	if updated.Score != 95 {
		t.Errorf("expected score 95, got %d", updated.Score)
	}
	if updated.Name != created.Name {
		t.Errorf("untouched field changed: %q -> %q", created.Name, updated.Name)
	}
}

func TestHandlerDeleteLead(t *testing.T) {
	h, ctrl := newTestHandler(t)
	created := addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodDelete, "/leads/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodDelete, "/leads/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestHandlerSelectPipeline(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPut, "/pipeline", `{"pipeline_id":"renewals"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var view View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.PipelineID != "renewals" {
		t.Errorf("expected pipeline renewals, got %q", view.PipelineID)
	}

	rec = doRequest(t, h, http.MethodPut, "/pipeline", `{"pipeline_id":"imaginary"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown pipeline: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/pipeline", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty pipeline id: expected 400, got %d", rec.Code)
	}
}

func TestHandlerFilters(t *testing.T) {
	h, ctrl := newTestHandler(t)
	addLead(t, ctrl, "new", func(r *leads.CreateLeadRequest) { r.Tags = []string{"hot-lead"} })
	addLead(t, ctrl, "new")

	rec := doRequest(t, h, http.MethodPut, "/filters", `{"tags":["hot-lead"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.TotalLeads != 1 {
		t.Errorf("expected 1 filtered lead, got %d", view.TotalLeads)
	}

	rec = doRequest(t, h, http.MethodDelete, "/filters", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view = View{}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.TotalLeads != 2 {
		t.Errorf("expected 2 leads after clear, got %d", view.TotalLeads)
	}
}

func TestHandlerFiltersRejectsUnknownSegment(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPut, "/filters", `{"segment":"imaginary"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerSortAndView(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPut, "/sort", `{"key":"name"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/sort", `{"key":"magnitude"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sort key: expected 400, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/view", `{"mode":"list"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/view", `{"mode":"grid"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown view mode: expected 400, got %d", rec.Code)
	}
}

func TestHandlerStats(t *testing.T) {
	h, ctrl := newTestHandler(t)
	won := addLead(t, ctrl, "contacted", func(r *leads.CreateLeadRequest) { r.Value = 200 })
	if _, err := ctrl.MoveLeadToStage(context.Background(), won.ID, "won"); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	rec := doRequest(t, h, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.TotalLeads != 1 {
		t.Errorf("expected 1 lead, got %d", stats.TotalLeads)
	}
	if stats.ConversionRate != 100 {
		t.Errorf("expected conversion 100, got %f", stats.ConversionRate)
	}
}
