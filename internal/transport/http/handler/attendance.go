package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-os/api/internal/application/attendance"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/campus-os/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// AttendanceHandler handles per-student attendance tracking.
type AttendanceHandler struct {
	svc attendance.Service
}

func NewAttendanceHandler(svc attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// studentID resolves the caller's student profile; accounts without one
// cannot track attendance.
func studentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	if p.StudentID == "" {
		writeError(w, http.StatusForbidden, "no student profile on this account")
		return "", false
	}
	return p.StudentID, true
}

func (h *AttendanceHandler) Add(w http.ResponseWriter, r *http.Request) {
	sid, ok := studentID(w, r)
	if !ok {
		return
	}
	var input domain.AttendanceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Add(r.Context(), sid, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	sid, ok := studentID(w, r)
	if !ok {
		return
	}
	records, err := h.svc.List(r.Context(), sid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sid, ok := studentID(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(r.Context(), sid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	sid, ok := studentID(w, r)
	if !ok {
		return
	}
	var input domain.AttendanceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Update(r.Context(), sid, chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sid, ok := studentID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), sid, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "attendance record deleted"})
}
