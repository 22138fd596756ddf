package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-identity/auth"
	"github.com/diewo77/go-identity/httpx"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/view"
)

type AuthHandler struct {
	users  *services.UserService
	creds  *services.CredentialVerifier
	tokens *auth.Tokens
}

func NewAuthHandler(users *services.UserService, creds *services.CredentialVerifier, tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{users: users, creds: creds, tokens: tokens}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeInvalidJSON(w)
		return
	}
	u, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    view.UserOf(u),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

// Login handles POST /login. Every rejection gets the same 401 body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	u, err := h.creds.Authenticate(r.Context(), in.Email, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		httpx.JSONMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.tokens.Issue(u.PublicID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Message: "Login successful", Email: u.Email, Token: token})
}

// Me handles GET /me for the verified caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	u, err := h.users.Detailed(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.UserOf(u))
}
