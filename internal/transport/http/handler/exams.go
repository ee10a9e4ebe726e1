package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-os/api/internal/application/exam"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// ExamHandler handles exam schedule endpoints.
type ExamHandler struct {
	svc exam.Service
}

func NewExamHandler(svc exam.Service) *ExamHandler { return &ExamHandler{svc: svc} }

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ExamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.ExamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "exam deleted"})
}
