package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/diewo77/go-identity/httpx"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/view"
	"github.com/diewo77/go-identity/validation"
)

type UserHandler struct {
	users *services.UserService
	life  *services.LifecycleManager
	recon *services.MembershipReconciler
}

func NewUserHandler(users *services.UserService, life *services.LifecycleManager, recon *services.MembershipReconciler) *UserHandler {
	return &UserHandler{users: users, life: life, recon: recon}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.Users(users))
}

// Details handles GET /user/details?email=.
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		httpx.JSONError(w, http.StatusBadRequest, "Missing required query parameter: email", nil)
		return
	}
	u, err := h.users.ByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.SummaryOf(u))
}

// ToggleStatus handles POST /user/{id}/toggle-status. Commit failures are
// reported as 400 "Unexpected error".
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	u, err := h.life.ToggleStatus(r.Context(), id)
	if err != nil {
		if services.KindOf(err) == services.KindOperational {
			log.Ctx(r.Context()).Error().Err(err).Uint("user_id", id).Msg("toggle status")
			httpx.JSONError(w, http.StatusBadRequest, "Unexpected error", nil)
			return
		}
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.StatusOf(u))
}

type setRolesRequest struct {
	Email string            `json:"email"`
	Roles validation.IDList `json:"roles"`
}

// SetRoles handles PATCH /user/roles.
func (h *UserHandler) SetRoles(w http.ResponseWriter, r *http.Request) {
	var in setRolesRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeInvalidJSON(w)
		return
	}
	u, err := h.users.ByEmail(r.Context(), in.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.recon.SetRolesForUser(r.Context(), u.ID, in.Roles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.UserRolesOf(res.User, res.Roles))
}
