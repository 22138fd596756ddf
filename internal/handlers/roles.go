package handlers

import (
	"net/http"

	"github.com/diewo77/go-identity/httpx"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/view"
	"github.com/diewo77/go-identity/validation"
)

type RoleHandler struct {
	roles *services.RoleService
	recon *services.MembershipReconciler
}

func NewRoleHandler(roles *services.RoleService, recon *services.MembershipReconciler) *RoleHandler {
	return &RoleHandler{roles: roles, recon: recon}
}

// Create handles POST /roles.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.RoleInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeInvalidJSON(w)
		return
	}
	role, err := h.roles.CreateRole(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Roles created successfully",
		"role":    view.RoleOf(role),
	})
}

// List handles GET /roles.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.Roles(roles))
}

// Get handles GET /roles/{id}.
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Role not found", nil)
		return
	}
	role, err := h.roles.GetRole(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.RoleUsersOf(role, role.Users))
}

type setUsersRequest struct {
	UserIDs validation.IDList `json:"user_ids"`
}

// SetUsers handles POST /roles/{id}/users.
func (h *RoleHandler) SetUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Role not found", nil)
		return
	}
	var in setUsersRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeInvalidJSON(w)
		return
	}
	res, err := h.recon.SetUsersForRole(r.Context(), id, in.UserIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := view.RoleUsersOf(res.Role, res.Users)
	out.Message = "Role updated successfully"
	httpx.JSON(w, http.StatusOK, out)
}
