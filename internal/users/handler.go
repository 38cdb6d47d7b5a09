package users

import (
	"encoding/json"
	"net/http"

	"github.com/salesdeck/crm-backend/pkg/logging"
)

// Handler handles HTTP requests for the owner directory.
type Handler struct {
	dir    Directory
	logger *logging.Logger
}

// NewHandler creates a new directory handler.
func NewHandler(dir Directory, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{dir: dir, logger: logger}
}

// List handles GET /users requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.dir.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
