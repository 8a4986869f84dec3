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

// VouchRepo provides typed DynamoDB operations for the vouches table.
// PK: voucher_id, SK: vouchee_id; GSI: vouchee_id-index for the received side.
type VouchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVouchRepo(client *dynamodb.Client, tableName string) *VouchRepo {
	return &VouchRepo{client: client, tableName: tableName}
}

// PutIfAbsent inserts the vouch edge unless the ordered pair already has
// one. attribute_not_exists on the partition key is evaluated against the
// full composite key, so concurrent double-vouch attempts resolve to
// exactly one success and ErrDuplicateVouch for the rest.
func (r *VouchRepo) PutIfAbsent(ctx context.Context, v *domain.Vouch) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal vouch: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(voucher_id)"),
	})
	if isConditionalCheckFailed(err) {
		return domain.ErrDuplicateVouch
	}
	return err
}

// ListByVouchee returns every vouch received by a user. Order is not
// guaranteed; callers that care sort on created_at.
func (r *VouchRepo) ListByVouchee(ctx context.Context, voucheeID string) ([]domain.Vouch, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("vouchee_id-index"),
		KeyConditionExpression: aws.String("vouchee_id = :vid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":vid": &types.AttributeValueMemberS{Value: voucheeID},
		},
	})
	if err != nil {
		return nil, err
	}
	var vouches []domain.Vouch
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &vouches); err != nil {
		return nil, err
	}
	return vouches, nil
}
