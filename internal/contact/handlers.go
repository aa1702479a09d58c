package contact

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inhaus-automation/backend/internal/common"
)

var validate = validator.New()

var allowedStatuses = map[string]bool{
	"new":       true,
	"contacted": true,
	"closed":    true,
}

// Handler exposes contact submission endpoints.
type Handler struct {
	store  Store
	mailer common.EmailSender
	notify string
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Store Store
	// Mailer and NotifyEmail enable best-effort notification to the company
	// inbox when a submission arrives. Either may be unset.
	Mailer      common.EmailSender
	NotifyEmail string
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{store: cfg.Store, mailer: cfg.Mailer, notify: cfg.NotifyEmail}
}

type createRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Create handles POST /api/contact. Public endpoint.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		common.WriteError(w, common.BadRequest("invalid contact payload", "", err))
		return
	}
	sub, err := h.store.Insert(r.Context(), Submission{
		Name:    req.Name,
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Message: req.Message,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if h.mailer != nil && h.notify != "" {
		// Notification failure never fails the submission.
		_ = h.mailer.Send(h.notify, "New contact inquiry from "+sub.Name,
			"<p><b>"+sub.Name+"</b> ("+sub.Email+", "+sub.Phone+")</p><p>"+sub.Message+"</p>", nil)
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": sub})
}

// List handles GET /api/contact with pagination, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	items, total, err := h.store.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// Get handles GET /api/contact/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid contact id", "id", err))
		return
	}
	sub, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sub})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/contact/{id}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid contact id", "id", err))
		return
	}
	var req statusRequest
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if !allowedStatuses[req.Status] {
		common.WriteError(w, common.BadRequest("invalid status", "status", nil))
		return
	}
	sub, err := h.store.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sub})
}

// Delete handles DELETE /api/contact/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid contact id", "id", err))
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"deleted": true}})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.WriteError(w, common.NotFound("contact submission not found", err))
		return
	}
	common.WriteError(w, err)
}
