package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/registre/server/internal/api/middleware"
	"github.com/registre/server/internal/api/respond"
	"github.com/registre/server/internal/auth"
	"github.com/registre/server/internal/session"
)

type AuthHandler struct {
	Manager     *auth.JWTManager
	Credentials *auth.Credentials
	Env         string
}

func NewAuthHandler(manager *auth.JWTManager, creds *auth.Credentials, env string) *AuthHandler {
	return &AuthHandler{Manager: manager, Credentials: creds, Env: env}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials, issues an identity token, and binds it to
// the caller's session so browser clients stay authenticated cookie-side.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Corps JSON invalide.", err, h.Env)
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.Error(w, r, http.StatusBadRequest, "Identifiant et mot de passe requis.", nil, h.Env)
		return
	}

	// No bootstrap credentials configured means local login is disabled.
	if h.Credentials == nil {
		respond.Error(w, r, http.StatusUnauthorized, "Identifiants invalides.", nil, h.Env)
		return
	}

	if err := h.Credentials.Verify(req.Username, req.Password); err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "Identifiants invalides.", nil, h.Env)
		return
	}

	token, err := h.Manager.Generate(req.Username)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Erreur serveur", err, h.Env)
		return
	}

	if sess := middleware.SessionFrom(r); sess != nil {
		sess.Set(session.IdentityTokenKey, token)
	}

	respond.OK(w, http.StatusOK, "Authentification réussie.", map[string]string{"token": token})
}

// Logout drops the identity assertion from the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFrom(r); sess != nil {
		sess.Unset(session.IdentityTokenKey)
	}
	respond.OK(w, http.StatusOK, "Session terminée.", nil)
}
