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

// ReviewRepo provides typed DynamoDB operations for the professor reviews table.
type ReviewRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReviewRepo(client *dynamodb.Client, tableName string) *ReviewRepo {
	return &ReviewRepo{client: client, tableName: tableName}
}

func (r *ReviewRepo) Put(ctx context.Context, rev *domain.ProfessorReview) error {
	item, err := attributevalue.MarshalMap(rev)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReviewRepo) List(ctx context.Context) ([]domain.ProfessorReview, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var reviews []domain.ProfessorReview
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByProfessor returns all reviews for one professor via the
// professor_name GSI.
func (r *ReviewRepo) ListByProfessor(ctx context.Context, professorName string) ([]domain.ProfessorReview, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("professor_name-index"),
		KeyConditionExpression:    aws.String("professor_name = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: professorName}},
	})
	if err != nil {
		return nil, err
	}
	var reviews []domain.ProfessorReview
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, reviewID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("review_id", reviewID),
	})
	return err
}
