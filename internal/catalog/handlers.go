package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/common"
)

var validate = validator.New()

// Handler exposes product catalog endpoints.
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

type productRequest struct {
	ModelNo     string          `json:"model_no" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	ImagePath   string          `json:"image_path"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Cost        decimal.Decimal `json:"cost"`
	Active      *bool           `json:"active"`
}

// Create handles POST /api/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		common.WriteError(w, common.BadRequest("invalid product payload", "", err))
		return
	}
	if req.ListPrice.IsNegative() || req.Cost.IsNegative() {
		common.WriteError(w, common.BadRequest("prices must not be negative", "list_price", nil))
		return
	}
	p, err := h.store.Insert(r.Context(), productFromRequest(req))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": p})
}

// List handles GET /api/products with optional category filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 50)
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	items, total, err := h.store.List(r.Context(), category, perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// Get handles GET /api/products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid product id", "id", err))
		return
	}
	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p})
}

// Update handles PUT /api/products/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid product id", "id", err))
		return
	}
	var req productRequest
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		common.WriteError(w, common.BadRequest("invalid product payload", "", err))
		return
	}
	p := productFromRequest(req)
	p.ID = id
	updated, err := h.store.Update(r.Context(), p)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Delete handles DELETE /api/products/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid product id", "id", err))
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"deleted": true}})
}

func productFromRequest(req productRequest) Product {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return Product{
		ModelNo:     strings.TrimSpace(req.ModelNo),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Brand:       strings.TrimSpace(req.Brand),
		ImagePath:   strings.TrimSpace(req.ImagePath),
		ListPrice:   req.ListPrice,
		Cost:        req.Cost,
		Active:      active,
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, common.NotFound("product not found", err))
	case errors.Is(err, ErrDuplicateModel):
		common.WriteError(w, common.Conflict("DUPLICATE_MODEL", "model number already exists", err))
	default:
		common.WriteError(w, err)
	}
}
