package handlers

import (
	"net/http"

	"github.com/registre/server/internal/api/respond"
)

// Home answers the API root with a usage hint.
func Home() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, http.StatusOK, "Registre de personnes! Utilisez les bonnes routes.", nil)
	})
}

// Secure is the handler behind the identity guard; reaching it means the
// caller presented a valid identity assertion.
func Secure() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, http.StatusOK, "Vous êtes authentifié !", nil)
	})
}
