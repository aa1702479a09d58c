package invoice

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/quotation"
)

// Handler exposes invoice endpoints, including quotation conversion.
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

// Create handles POST /api/invoices.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := common.Decode(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	inv, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": inv})
}

// ConvertQuotation handles POST /api/quotations/{id}/convert.
func (h *Handler) ConvertQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid quotation id", "id", err))
		return
	}
	inv, err := h.service.CreateFromQuotation(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": inv})
}

// List handles GET /api/invoices with optional payment_status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	status := r.URL.Query().Get("payment_status")
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

// Get handles GET /api/invoices/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       inv,
		"amount_due": inv.AmountDue(),
	})
}

// Update handles PUT /api/invoices/{id}.
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
	inv, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": inv})
}

// Delete handles DELETE /api/invoices/{id}.
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

// UpdateStatus handles PATCH /api/invoices/{id}/status.
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
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
	default:
		common.WriteError(w, common.BadRequest("invalid status", "status", nil))
		return
	}
	inv, err := h.store.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": inv})
}

// RecordPayment handles POST /api/invoices/{id}/payment.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	inv, err := h.service.RecordPayment(r.Context(), id, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       inv,
		"amount_due": inv.AmountDue(),
	})
}

// PDF handles GET /api/invoices/{id}/pdf and streams the rendered document.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, data, err := h.service.PDF(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.InvoiceNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Send handles POST /api/invoices/{id}/send. Email failure still returns 200
// with email_sent=false.
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
		"data":        result.Invoice,
		"email_sent":  result.EmailSent,
		"email_error": result.EmailError,
	})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid invoice id", "id", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, common.NotFound("invoice not found", err))
	case errors.Is(err, quotation.ErrNotFound):
		common.WriteError(w, common.NotFound("quotation not found", err))
	default:
		common.WriteError(w, err)
	}
}
