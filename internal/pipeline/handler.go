package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salesdeck/crm-backend/pkg/logging"
)

// Handler handles HTTP requests for the pipeline catalog.
type Handler struct {
	catalog Catalog
	logger  *logging.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(catalog Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// Routes mounts the catalog endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Get("/{pipelineID}", h.Get)
	return r
}

// List handles GET /pipelines requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list pipelines", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Get handles GET /pipelines/{pipelineID} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pipelineID")
	p, err := h.catalog.Get(r.Context(), id)
	if err == ErrPipelineNotFound {
		http.Error(w, `{"error": "pipeline not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get pipeline", "pipeline_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Save handles POST /pipelines requests, upserting a full definition.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var p Pipeline
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := h.catalog.Save(r.Context(), &p); err != nil {
		h.logger.Error("failed to save pipeline", "pipeline_id", p.ID, "error", err)
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	h.logger.Info("pipeline saved", "pipeline_id", p.ID, "stages", len(p.Stages))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(&p)
}
