package settings

import (
	"net/http"

	"github.com/inhaus-automation/backend/internal/common"
)

// Handler exposes the company settings endpoints.
type Handler struct {
	store Store
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Store Store
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{store: cfg.Store}
}

// Get handles GET /api/settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": s})
}

// Update handles PUT /api/settings.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req CompanySettings
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if req.CompanyName == "" {
		common.WriteError(w, common.BadRequest("company_name is required", "company_name", nil))
		return
	}
	s, err := h.store.Upsert(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": s})
}
