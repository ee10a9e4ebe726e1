package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-os/api/internal/application/gig"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/campus-os/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// GigHandler handles the student gig marketplace.
type GigHandler struct {
	svc gig.Service
}

func NewGigHandler(svc gig.Service) *GigHandler { return &GigHandler{svc: svc} }

func (h *GigHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var input domain.GigInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.svc.Create(r.Context(), p.UserID, p.Name, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GigHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// List returns gigs, optionally filtered by ?status= and ?category=.
func (h *GigHandler) List(w http.ResponseWriter, r *http.Request) {
	gigs, err := h.svc.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("category"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gigs)
}

func (h *GigHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var input domain.GigStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.svc.UpdateStatus(r.Context(), p.UserID, p.Role, chi.URLParam(r, "id"), input.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.svc.Delete(r.Context(), p.UserID, p.Role, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "gig deleted"})
}
