package domain

import "time"

// ChatRoom is a campus chat channel. Broadcast rooms are read-only for
// students; only admins may post.
type ChatRoom struct {
	RoomID    string    `json:"id" dynamodbav:"room_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Broadcast bool      `json:"broadcast" dynamodbav:"broadcast"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

type ChatMessage struct {
	MessageID  string    `json:"id" dynamodbav:"message_id"`
	RoomID     string    `json:"room_id" dynamodbav:"room_id"`
	SenderID   string    `json:"sender_id" dynamodbav:"sender_id"`
	SenderName string    `json:"sender_name" dynamodbav:"sender_name"`
	Content    string    `json:"content" dynamodbav:"content"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

type ChatRoomInput struct {
	Name      string `json:"name" validate:"required"`
	Broadcast bool   `json:"broadcast"`
}

type ChatRoomUpdateInput struct {
	Name      *string `json:"name"`
	Broadcast *bool   `json:"broadcast"`
}

type ChatMessageInput struct {
	Content string `json:"content" validate:"required"`
}
