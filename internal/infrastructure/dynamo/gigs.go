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

// GigRepo provides typed DynamoDB operations for the gigs table.
type GigRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewGigRepo(client *dynamodb.Client, tableName string) *GigRepo {
	return &GigRepo{client: client, tableName: tableName}
}

func (r *GigRepo) Put(ctx context.Context, g *domain.Gig) error {
	item, err := attributevalue.MarshalMap(g)
	if err != nil {
		return fmt.Errorf("marshal gig: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *GigRepo) Get(ctx context.Context, gigID string) (*domain.Gig, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("gig_id", gigID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("gig %s: %w", gigID, domain.ErrNotFound)
	}
	var g domain.Gig
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all gigs, optionally filtered by status via the
// status-created_at GSI (newest first when filtered).
func (r *GigRepo) List(ctx context.Context, status string) ([]domain.Gig, error) {
	if status != "" {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("status-created_at-index"),
			KeyConditionExpression:    aws.String("#s = :s"),
			ExpressionAttributeNames:  map[string]string{"#s": "status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: status}},
			ScanIndexForward:          aws.Bool(false),
		})
		if err != nil {
			return nil, err
		}
		var gigs []domain.Gig
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &gigs); err != nil {
			return nil, err
		}
		return gigs, nil
	}
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var gigs []domain.Gig
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

func (r *GigRepo) Update(ctx context.Context, gigID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("gig_id", gigID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *GigRepo) Delete(ctx context.Context, gigID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("gig_id", gigID),
	})
	return err
}
