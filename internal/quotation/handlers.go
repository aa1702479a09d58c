package quotation

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inhaus-automation/backend/internal/common"
)

// Handler exposes quotation endpoints.
type Handler struct {
	service *Service
	store   Store
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
	Store   Store
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, store: cfg.Store}
}

// Create handles POST /api/quotations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := common.Decode(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	q, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": q})
}

// List handles GET /api/quotations with optional status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	status := r.URL.Query().Get("status")
	items, total, err := h.store.List(r.Context(), status, perPage, (page-1)*perPage)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// Get handles GET /api/quotations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Update handles PUT /api/quotations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := common.Decode(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	q, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Delete handles DELETE /api/quotations/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"deleted": true}})
}

// PDF handles GET /api/quotations/{id}/pdf and streams the rendered document.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, data, err := h.service.PDF(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.QuoteNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Send handles POST /api/quotations/{id}/send. Email failure still returns
// 200 with email_sent=false.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	result, err := h.service.Send(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":        result.Quotation,
		"email_sent":  result.EmailSent,
		"email_error": result.EmailError,
	})
}

// UpdateStatus handles PATCH /api/quotations/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	switch req.Status {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusConverted:
	default:
		common.WriteError(w, common.BadRequest("invalid status", "status", nil))
		return
	}
	q, err := h.store.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid quotation id", "id", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.WriteError(w, common.NotFound("quotation not found", err))
		return
	}
	common.WriteError(w, err)
}
