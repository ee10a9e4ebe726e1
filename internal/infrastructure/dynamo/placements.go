package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-os/api/internal/domain"
)

// PlacementRepo provides typed DynamoDB operations for the placements table.
type PlacementRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPlacementRepo(client *dynamodb.Client, tableName string) *PlacementRepo {
	return &PlacementRepo{client: client, tableName: tableName}
}

func (r *PlacementRepo) Put(ctx context.Context, p *domain.Placement) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal placement: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PlacementRepo) Get(ctx context.Context, placementID string) (*domain.Placement, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("placement_id", placementID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("placement %s: %w", placementID, domain.ErrNotFound)
	}
	var p domain.Placement
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlacementRepo) List(ctx context.Context) ([]domain.Placement, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var placements []domain.Placement
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &placements); err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *PlacementRepo) Update(ctx context.Context, placementID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("placement_id", placementID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *PlacementRepo) Delete(ctx context.Context, placementID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("placement_id", placementID),
	})
	return err
}
