package auth

import (
	"net/http"

	"github.com/inhaus-automation/backend/internal/common"
)

// Handler exposes the admin login endpoint.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	var req loginRequest
	if err := common.Decode(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		common.WriteError(w, common.BadRequest("username and password are required", "", nil))
		return
	}
	result, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}
