package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-os/api/internal/application/review"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/campus-os/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ReviewHandler handles anonymous professor reviews.
type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler { return &ReviewHandler{svc: svc} }

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var input domain.ProfessorReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rev, err := h.svc.Create(r.Context(), p.UserID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	// ?professor= narrows to one professor's reviews.
	if name := r.URL.Query().Get("professor"); name != "" {
		reviews, err := h.svc.ListByProfessor(r.Context(), name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reviews)
		return
	}
	reviews, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.svc.Ratings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "review deleted"})
}
