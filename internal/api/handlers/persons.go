package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/registre/server/internal/api/respond"
	"github.com/registre/server/internal/domain/persons"
)

type PersonsHandler struct {
	Service *persons.Service
	Env     string
}

func NewPersonsHandler(service *persons.Service, env string) *PersonsHandler {
	return &PersonsHandler{Service: service, Env: env}
}

func (h *PersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Erreur serveur", err, h.Env)
		return
	}
	respond.OK(w, http.StatusOK, "Success", list)
}

func (h *PersonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := personID(w, r, h.Env)
	if !ok {
		return
	}

	person, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	respond.OK(w, http.StatusOK, "Success", person)
}

func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWriteRequest(w, r, h.Env)
	if !ok {
		return
	}

	person, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, 0, err)
		return
	}
	respond.OK(w, http.StatusOK, "Success", person)
}

func (h *PersonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := personID(w, r, h.Env)
	if !ok {
		return
	}
	req, ok := decodeWriteRequest(w, r, h.Env)
	if !ok {
		return
	}

	person, err := h.Service.Replace(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	respond.OK(w, http.StatusOK, "Personne mise à jour", person)
}

func (h *PersonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := personID(w, r, h.Env)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, id, err)
		return
	}
	respond.OK(w, http.StatusOK, fmt.Sprintf("Personne avec l'ID %d supprimée.", id), nil)
}

func (h *PersonsHandler) writeError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	var verr persons.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(w, r, http.StatusBadRequest, verr.Message, nil, h.Env)
	case errors.Is(err, persons.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, fmt.Sprintf("Aucune personne trouvée avec l'ID %d", id), nil, h.Env)
	default:
		respond.Error(w, r, http.StatusInternalServerError, "Erreur serveur", err, h.Env)
	}
}

func personID(w http.ResponseWriter, r *http.Request, env string) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		respond.Error(w, r, http.StatusBadRequest, "Le champ 'id' est obligatoire.", nil, env)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusBadRequest, "L'ID doit être un entier positif.", nil, env)
		return 0, false
	}
	return id, true
}

func decodeWriteRequest(w http.ResponseWriter, r *http.Request, env string) (persons.WriteRequest, bool) {
	var req persons.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Corps JSON invalide.", err, env)
		return persons.WriteRequest{}, false
	}
	return req, true
}
