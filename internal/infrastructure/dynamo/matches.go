package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/caravanly/caravan-api/internal/domain"
)

// MatchRequestRepo provides typed DynamoDB operations for the match_requests table.
// PK: pair_id; GSIs: request_id-index, requester_id-index, target_id-index.
type MatchRequestRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMatchRequestRepo(client *dynamodb.Client, tableName string) *MatchRequestRepo {
	return &MatchRequestRepo{client: client, tableName: tableName}
}

// PutIfAbsent inserts the request unless a non-rejected record already
// occupies the ordered pair. The condition converts a concurrent create
// race into ErrDuplicateRequest for every caller but one. A rejected
// record is overwritten, which is what permits re-requesting after a
// rejection.
func (r *MatchRequestRepo) PutIfAbsent(ctx context.Context, m *domain.MatchRequest) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal match request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pair_id) OR #s = :rejected"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rejected": &types.AttributeValueMemberS{Value: domain.MatchStatusRejected},
		},
	})
	if isConditionalCheckFailed(err) {
		return domain.ErrDuplicateRequest
	}
	return err
}

// GetByRequestID looks up a request by its public id via GSI.
func (r *MatchRequestRepo) GetByRequestID(ctx context.Context, requestID string) (*domain.MatchRequest, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("request_id-index"),
		KeyConditionExpression: aws.String("request_id = :rid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid": &types.AttributeValueMemberS{Value: requestID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("match request not found: %w", domain.ErrNotFound)
	}
	var m domain.MatchRequest
	if err := attributevalue.UnmarshalMap(out.Items[0], &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Transition moves the pair's record from pending to the given terminal
// status. The condition pins both the request id (the pair slot may have
// been recycled by a later request) and the pending status, so a resolve
// racing another resolve loses with ErrAlreadyResolved.
func (r *MatchRequestRepo) Transition(ctx context.Context, pairID, requestID, newStatus string) (*domain.MatchRequest, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:  newStatus,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	ue.Names["#s"] = fieldStatus
	ue.Values[":rid"] = &types.AttributeValueMemberS{Value: requestID}
	ue.Values[":pending"] = &types.AttributeValueMemberS{Value: domain.MatchStatusPending}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("pair_id", pairID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("request_id = :rid AND #s = :pending"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrAlreadyResolved
		}
		return nil, err
	}
	var m domain.MatchRequest
	if err := attributevalue.UnmarshalMap(out.Attributes, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByRequester returns requests sent by a user, optionally filtered by status.
func (r *MatchRequestRepo) ListByRequester(ctx context.Context, requesterID, status string) ([]domain.MatchRequest, error) {
	return r.queryByUser(ctx, "requester_id-index", "requester_id", requesterID, status)
}

// ListByTarget returns requests received by a user, optionally filtered by status.
func (r *MatchRequestRepo) ListByTarget(ctx context.Context, targetID, status string) ([]domain.MatchRequest, error) {
	return r.queryByUser(ctx, "target_id-index", "target_id", targetID, status)
}

func (r *MatchRequestRepo) queryByUser(ctx context.Context, index, attr, userID, status string) ([]domain.MatchRequest, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#a = :v"),
		ExpressionAttributeNames: map[string]string{
			"#a": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: userID},
		},
	}
	if status != "" {
		input.FilterExpression = aws.String("#s = :status")
		input.ExpressionAttributeNames["#s"] = fieldStatus
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: status}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var requests []domain.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
