package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-os/api/internal/domain"
)

// ChatRoomRepo provides typed DynamoDB operations for chat rooms.
type ChatRoomRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChatRoomRepo(client *dynamodb.Client, tableName string) *ChatRoomRepo {
	return &ChatRoomRepo{client: client, tableName: tableName}
}

func (r *ChatRoomRepo) Put(ctx context.Context, room *domain.ChatRoom) error {
	item, err := attributevalue.MarshalMap(room)
	if err != nil {
		return fmt.Errorf("marshal chat room: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ChatRoomRepo) Get(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("room_id", roomID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("chat room %s: %w", roomID, domain.ErrNotFound)
	}
	var room domain.ChatRoom
	if err := attributevalue.UnmarshalMap(out.Item, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *ChatRoomRepo) List(ctx context.Context) ([]domain.ChatRoom, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var rooms []domain.ChatRoom
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *ChatRoomRepo) Delete(ctx context.Context, roomID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("room_id", roomID),
	})
	return err
}

// ChatMessageRepo provides typed DynamoDB operations for chat messages.
// Messages are read per room via the room_id-created_at GSI.
type ChatMessageRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChatMessageRepo(client *dynamodb.Client, tableName string) *ChatMessageRepo {
	return &ChatMessageRepo{client: client, tableName: tableName}
}

func (r *ChatMessageRepo) Put(ctx context.Context, m *domain.ChatMessage) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByRoom returns up to limit messages for a room, oldest first.
// A limit of zero means no cap.
func (r *ChatMessageRepo) ListByRoom(ctx context.Context, roomID string, limit int32) ([]domain.ChatMessage, error) {
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("room_id-created_at-index"),
		KeyConditionExpression:    aws.String("room_id = :r"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":r": &types.AttributeValueMemberS{Value: roomID}},
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, err
	}
	var messages []domain.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
