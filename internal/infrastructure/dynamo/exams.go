package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-os/api/internal/domain"
)

// ExamRepo provides typed DynamoDB operations for the exams table.
type ExamRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewExamRepo(client *dynamodb.Client, tableName string) *ExamRepo {
	return &ExamRepo{client: client, tableName: tableName}
}

func (r *ExamRepo) Put(ctx context.Context, e *domain.Exam) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal exam: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ExamRepo) Get(ctx context.Context, examID string) (*domain.Exam, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("exam_id", examID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("exam %s: %w", examID, domain.ErrNotFound)
	}
	var e domain.Exam
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExamRepo) List(ctx context.Context) ([]domain.Exam, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var exams []domain.Exam
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *ExamRepo) Update(ctx context.Context, examID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("exam_id", examID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *ExamRepo) Delete(ctx context.Context, examID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("exam_id", examID),
	})
	return err
}
