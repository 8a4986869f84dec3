package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/caravanly/caravan-api/internal/domain"
)

// OtpRepo manages one-time login codes.
// PK: email. A PutItem replaces whatever code was live for that email, and
// expired rows are swept by the table's TTL on expires_at.
type OtpRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOtpRepo(client *dynamodb.Client, tableName string) *OtpRepo {
	return &OtpRepo{client: client, tableName: tableName}
}

func (r *OtpRepo) Put(ctx context.Context, c *domain.OtpCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Consume atomically deletes the code for email if and only if the stored
// code matches, returning the deleted record. A single conditional
// DeleteItem carries the exactly-once guarantee: two concurrent attempts
// with the same code race on the same key and DynamoDB admits exactly one.
// A missing record and a wrong code are indistinguishable here; both
// surface as ErrInvalidCode. Expiry is the caller's check: the record it
// needs is in the returned value, and the delete already purged it.
func (r *OtpRepo) Consume(ctx context.Context, email, code string) (*domain.OtpCode, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("code = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: code},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	var c domain.OtpCode
	if err := attributevalue.UnmarshalMap(out.Attributes, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
