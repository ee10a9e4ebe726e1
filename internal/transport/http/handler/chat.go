package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campus-os/api/internal/application/chat"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/validate"
	"github.com/campus-os/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ChatHandler handles chat rooms and messages.
type ChatHandler struct {
	svc chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler { return &ChatHandler{svc: svc} }

func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var input domain.ChatRoomInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := h.svc.CreateRoom(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// UpdateRoom renames a room or toggles its broadcast flag.
func (h *ChatHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var input domain.ChatRoomUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.svc.UpdateRoom(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *ChatHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "room deleted"})
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var input domain.ChatMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.svc.PostMessage(r.Context(), chi.URLParam(r, "id"), p.UserID, p.Name, p.Role, input.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// ListMessages returns room history, capped by ?limit=.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	messages, err := h.svc.ListMessages(r.Context(), chi.URLParam(r, "id"), int32(limit))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
