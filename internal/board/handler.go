package board

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/pkg/logging"
)

// Handler exposes the board controller over HTTP.
type Handler struct {
	ctrl   *Controller
	logger *logging.Logger
}

// NewHandler creates a new board handler.
func NewHandler(ctrl *Controller, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ctrl: ctrl, logger: logger}
}

// Routes mounts the board endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetBoard)
	r.Get("/stats", h.GetStats)
	r.Put("/pipeline", h.SelectPipeline)
	r.Put("/filters", h.SetFilters)
	r.Delete("/filters", h.ClearFilters)
	r.Put("/sort", h.SetSort)
	r.Put("/view", h.SetViewMode)
	r.Post("/leads", h.CreateLead)
	r.Patch("/leads/{leadID}", h.UpdateLead)
	r.Delete("/leads/{leadID}", h.DeleteLead)
	r.Post("/leads/{leadID}/move", h.MoveLead)
	return r
}

// GetBoard handles GET /board requests.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := h.ctrl.BoardView(r.Context())
	if err != nil {
		h.logger.Error("failed to compute board view", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetStats handles GET /board/stats requests.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ctrl.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type selectPipelineRequest struct {
	PipelineID string `json:"pipeline_id"`
}

// SelectPipeline handles PUT /board/pipeline requests.
func (h *Handler) SelectPipeline(w http.ResponseWriter, r *http.Request) {
	var req selectPipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PipelineID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "pipeline_id required")
		return
	}
	if err := h.ctrl.SelectPipeline(r.Context(), req.PipelineID); err != nil {
		writeError(w, err)
		return
	}
	h.GetBoard(w, r)
}

// SetFilters handles PUT /board/filters requests; the body is a partial
// patch merged into the current specification.
func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var patch FilterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ctrl.SetFilters(patch); err != nil {
		writeError(w, err)
		return
	}
	h.GetBoard(w, r)
}

// ClearFilters handles DELETE /board/filters requests.
func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ClearFilters()
	h.GetBoard(w, r)
}

type setSortRequest struct {
	Key SortKey `json:"key"`
}

// SetSort handles PUT /board/sort requests.
func (h *Handler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req setSortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ctrl.SetSort(req.Key); err != nil {
		writeError(w, err)
		return
	}
	h.GetBoard(w, r)
}

type setViewModeRequest struct {
	Mode ViewMode `json:"mode"`
}

// SetViewMode handles PUT /board/view requests.
func (h *Handler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req setViewModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ctrl.SetViewMode(req.Mode); err != nil {
		writeError(w, err)
		return
	}
	h.GetBoard(w, r)
}

// CreateLead handles POST /board/leads requests. The stage field selects
// the target column; empty targets the pipeline's first stage.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req leads.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lead, err := h.ctrl.AddLead(r.Context(), req.Stage, &req)
	if err != nil {
		h.logger.Error("failed to add lead", "error", err)
		writeError(w, err)
		return
	}
	h.logger.Info("lead created", "id", lead.ID, "name", lead.Name)
	writeJSON(w, http.StatusCreated, lead)
}

// UpdateLead handles PATCH /board/leads/{leadID} requests.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	var req leads.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lead, err := h.ctrl.UpdateLead(r.Context(), leadID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// DeleteLead handles DELETE /board/leads/{leadID} requests.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if err := h.ctrl.DeleteLead(r.Context(), leadID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveLeadRequest struct {
	StageID string `json:"stage_id"`
}

// MoveLead handles POST /board/leads/{leadID}/move requests, the
// endpoint behind the drag-and-drop gesture.
func (h *Handler) MoveLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	var req moveLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lead, err := h.ctrl.MoveLeadToStage(r.Context(), leadID, req.StageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors onto status codes: missing ids are 404,
// invalid stages are 422, caller validation mistakes are 400.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leads.ErrLeadNotFound), errors.Is(err, pipeline.ErrPipelineNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStage):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrUnknownSortKey), errors.Is(err, ErrUnknownViewMode), errors.Is(err, ErrUnknownSegment),
		errors.Is(err, leads.ErrInvalidName), errors.Is(err, leads.ErrMissingContact),
		errors.Is(err, leads.ErrScoreOutOfRange), errors.Is(err, leads.ErrNegativeValue),
		errors.Is(err, leads.ErrUnknownSource):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
