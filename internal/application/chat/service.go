package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

const (
	// assistantPrefix triggers an AI reply when a message starts with it.
	assistantPrefix = "@ai"

	assistantSenderID   = "assistant"
	assistantSenderName = "Campus AI"

	defaultHistoryLimit = 100
)

type Service interface {
	CreateRoom(ctx context.Context, input domain.ChatRoomInput) (*domain.ChatRoom, error)
	ListRooms(ctx context.Context) ([]domain.ChatRoom, error)
	UpdateRoom(ctx context.Context, roomID string, input domain.ChatRoomUpdateInput) (*domain.ChatRoom, error)
	DeleteRoom(ctx context.Context, roomID string) error
	PostMessage(ctx context.Context, roomID, senderID, senderName, senderRole, content string) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, roomID string, limit int32) ([]domain.ChatMessage, error)
}

type roomStore interface {
	Put(ctx context.Context, room *domain.ChatRoom) error
	Get(ctx context.Context, roomID string) (*domain.ChatRoom, error)
	List(ctx context.Context) ([]domain.ChatRoom, error)
	Delete(ctx context.Context, roomID string) error
}

type messageStore interface {
	Put(ctx context.Context, m *domain.ChatMessage) error
	ListByRoom(ctx context.Context, roomID string, limit int32) ([]domain.ChatMessage, error)
}

type assistant interface {
	Enabled() bool
	Reply(ctx context.Context, message string) (string, error)
}

type service struct {
	rooms     roomStore
	messages  messageStore
	assistant assistant
	dispatch  func(func())
}

type ServiceDeps struct {
	RoomRepo    roomStore
	MessageRepo messageStore
	Assistant   assistant

	// Dispatch runs the AI reply off the request path. Defaults to
	// spawning a goroutine.
	Dispatch func(func())
}

func NewService(deps ServiceDeps) Service {
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { go fn() }
	}
	return &service{
		rooms:     deps.RoomRepo,
		messages:  deps.MessageRepo,
		assistant: deps.Assistant,
		dispatch:  dispatch,
	}
}

func (s *service) CreateRoom(ctx context.Context, input domain.ChatRoomInput) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{
		RoomID:    id.New(),
		Name:      input.Name,
		Broadcast: input.Broadcast,
		CreatedAt: time.Now(),
	}
	if err := s.rooms.Put(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) ListRooms(ctx context.Context) ([]domain.ChatRoom, error) {
	return s.rooms.List(ctx)
}

// UpdateRoom applies only the fields present in the input, most notably
// toggling a room between open and broadcast mode.
func (s *service) UpdateRoom(ctx context.Context, roomID string, input domain.ChatRoomUpdateInput) (*domain.ChatRoom, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		room.Name = *input.Name
	}
	if input.Broadcast != nil {
		room.Broadcast = *input.Broadcast
	}
	if err := s.rooms.Put(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) DeleteRoom(ctx context.Context, roomID string) error {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return err
	}
	return s.rooms.Delete(ctx, roomID)
}

// PostMessage stores a message in a room. Broadcast rooms accept posts
// from admins only. Messages addressed to the assistant get an AI reply
// appended to the room asynchronously.
func (s *service) PostMessage(ctx context.Context, roomID, senderID, senderName, senderRole, content string) (*domain.ChatMessage, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Broadcast && senderRole != domain.RoleAdmin {
		return nil, fmt.Errorf("broadcast room is read-only: %w", domain.ErrForbidden)
	}

	m := &domain.ChatMessage{
		MessageID:  id.New(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Put(ctx, m); err != nil {
		return nil, err
	}

	if s.assistant.Enabled() && strings.HasPrefix(strings.ToLower(content), assistantPrefix) {
		question := strings.TrimSpace(content[len(assistantPrefix):])
		s.dispatch(func() { s.replyTo(roomID, question) })
	}
	return m, nil
}

func (s *service) replyTo(roomID, question string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	answer, err := s.assistant.Reply(ctx, question)
	if err != nil {
		slog.Warn("assistant reply", "room_id", roomID, "error", err)
		return
	}
	reply := &domain.ChatMessage{
		MessageID:  id.New(),
		RoomID:     roomID,
		SenderID:   assistantSenderID,
		SenderName: assistantSenderName,
		Content:    answer,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Put(ctx, reply); err != nil {
		slog.Error("store assistant reply", "room_id", roomID, "error", err)
	}
}

func (s *service) ListMessages(ctx context.Context, roomID string, limit int32) ([]domain.ChatMessage, error) {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.messages.ListByRoom(ctx, roomID, limit)
}
