package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-os/api/internal/domain"
)

// NoticeRepo provides typed DynamoDB operations for the notices table.
type NoticeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNoticeRepo(client *dynamodb.Client, tableName string) *NoticeRepo {
	return &NoticeRepo{client: client, tableName: tableName}
}

func (r *NoticeRepo) Put(ctx context.Context, n *domain.Notice) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NoticeRepo) Get(ctx context.Context, noticeID string) (*domain.Notice, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notice_id", noticeID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notice %s: %w", noticeID, domain.ErrNotFound)
	}
	var n domain.Notice
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoticeRepo) List(ctx context.Context) ([]domain.Notice, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var notices []domain.Notice
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *NoticeRepo) Update(ctx context.Context, noticeID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("notice_id", noticeID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *NoticeRepo) Delete(ctx context.Context, noticeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notice_id", noticeID),
	})
	return err
}
