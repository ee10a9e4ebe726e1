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

// AttendanceRepo provides typed DynamoDB operations for the attendance table.
// Records are queried per student via the student_id-date GSI.
type AttendanceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAttendanceRepo(client *dynamodb.Client, tableName string) *AttendanceRepo {
	return &AttendanceRepo{client: client, tableName: tableName}
}

func (r *AttendanceRepo) Put(ctx context.Context, a *domain.Attendance) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal attendance: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AttendanceRepo) Get(ctx context.Context, attendanceID string) (*domain.Attendance, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("attendance_id", attendanceID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("attendance %s: %w", attendanceID, domain.ErrNotFound)
	}
	var a domain.Attendance
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByStudent returns all attendance records for a student, oldest first.
func (r *AttendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Attendance, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("student_id-date-index"),
		KeyConditionExpression:    aws.String("student_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":sid": &types.AttributeValueMemberS{Value: studentID}},
	})
	if err != nil {
		return nil, err
	}
	var records []domain.Attendance
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AttendanceRepo) Update(ctx context.Context, attendanceID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("attendance_id", attendanceID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *AttendanceRepo) Delete(ctx context.Context, attendanceID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("attendance_id", attendanceID),
	})
	return err
}
