package handlers

import (
	"net/http"

	"github.com/diewo77/go-identity/httpx"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/view"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.Profiles(profiles))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Profile not found", nil)
		return
	}
	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.ProfileOf(p))
}

// Update handles PATCH /profiles/{id}. Absent and null fields are ignored.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Profile not found", nil)
		return
	}
	var patch services.ProfilePatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}
	p, err := h.profiles.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.ProfileOf(p))
}
