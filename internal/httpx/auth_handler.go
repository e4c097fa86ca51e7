package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/users"
)

type AuthHandler struct {
	Users *users.Repo
	Auth  *auth.Manager
	Log   zerolog.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.With(h.Auth.Middleware).Get("/auth/me", h.me)
	r.With(h.Auth.Middleware).Put("/auth/change-password", h.changePassword)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, h.Log, errs.Validation("email and password are required"))
		return
	}

	cred, err := h.Users.GetCredentialByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if !cred.Active {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "account is deactivated"})
		return
	}
	if cred.PasswordHash == nil {
		writeError(w, h.Log, &errs.AuthError{Msg: "password not set for this account"})
		return
	}
	if !users.CheckPassword(*cred.PasswordHash, req.Password) {
		writeError(w, h.Log, &errs.AuthError{Msg: "invalid email or password"})
		return
	}

	token, err := h.Auth.Issue(auth.Identity{UserID: cred.ID, Email: cred.Email})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Users.TouchLastLogin(r.Context(), cred.ID); err != nil {
		h.Log.Warn().Err(err).Int64("user_id", cred.ID).Msg("could not update last login")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"usuario": map[string]any{
			"id":     cred.ID,
			"nombre": cred.Name,
			"email":  cred.Email,
		},
	})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	u, err := h.Users.GetByID(r.Context(), id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, h.Log, errs.Validation("current_password and new_password are required"))
		return
	}
	if len(req.NewPassword) < users.MinPasswordLen {
		writeError(w, h.Log, errs.Validation("new password must be at least 6 characters"))
		return
	}

	id, _ := auth.FromContext(r.Context())
	hash, err := h.Users.GetPasswordHash(r.Context(), id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if !users.CheckPassword(hash, req.CurrentPassword) {
		writeError(w, h.Log, &errs.AuthError{Msg: "current password is incorrect"})
		return
	}

	newHash, err := users.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), id.UserID, newHash); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "password updated"})
}
