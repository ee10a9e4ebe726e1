package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-os/api/internal/application/notice"
	"github.com/campus-os/api/internal/domain"
	s3infra "github.com/campus-os/api/internal/infrastructure/s3"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// maxAttachmentSize caps notice uploads at 10 MiB.
const maxAttachmentSize = 10 << 20

// NoticeHandler handles campus notice endpoints.
type NoticeHandler struct {
	svc notice.Service
}

func NewNoticeHandler(svc notice.Service) *NoticeHandler { return &NoticeHandler{svc: svc} }

func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.NoticeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notices)
}

func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.NoticeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notice deleted"})
}

// Upload attaches a multipart file to a notice.
func (h *NoticeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = s3infra.DetectContentType(header.Filename)
	}
	n, err := h.svc.UploadAttachment(r.Context(), chi.URLParam(r, "id"), header.Filename, file, contentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
