package dynamo

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-phone-verify/internal/domain"
)

// verificationItem is the on-table shape of a domain.VerificationRecord.
// ExpiresAt is rounded up to whole seconds for the table TTL; ExpiresAtMs is
// what matching compares against.
type verificationItem struct {
	PhoneNumber string `dynamodbav:"phone_number"`
	CodeHash    string `dynamodbav:"code_hash"`
	CreatedAtMs int64  `dynamodbav:"created_at_ms"`
	ExpiresAtMs int64  `dynamodbav:"expires_at_ms"`
	ExpiresAt   int64  `dynamodbav:"expires_at"`
}

func toItem(v *domain.VerificationRecord) verificationItem {
	return verificationItem{
		PhoneNumber: v.PhoneNumber,
		CodeHash:    v.CodeHash,
		CreatedAtMs: v.CreatedAt.UnixMilli(),
		ExpiresAtMs: v.ExpiresAt.UnixMilli(),
		ExpiresAt:   v.ExpiresAt.Add(time.Second - 1).Unix(),
	}
}

func (i verificationItem) record() *domain.VerificationRecord {
	return &domain.VerificationRecord{
		PhoneNumber: i.PhoneNumber,
		CodeHash:    i.CodeHash,
		CreatedAt:   time.UnixMilli(i.CreatedAtMs).UTC(),
		ExpiresAt:   time.UnixMilli(i.ExpiresAtMs).UTC(),
	}
}

// VerificationRepo stores pending codes, one item per phone number.
// PK: phone_number
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Put writes the record; PutItem on the same key replaces the old item atomically.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.VerificationRecord) error {
	item, err := attributevalue.MarshalMap(toItem(v))
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VerificationRepo) Find(ctx context.Context, phoneNumber, codeHash string, now time.Time) (*domain.VerificationRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldPhoneNumber, phoneNumber),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var it verificationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	v := it.record()
	if subtle.ConstantTimeCompare([]byte(v.CodeHash), []byte(codeHash)) != 1 || !v.Live(now) {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return v, nil
}

// Consume deletes the item only when it still carries codeHash and has not expired.
// A failed condition means someone else consumed or superseded it first.
func (r *VerificationRepo) Consume(ctx context.Context, phoneNumber, codeHash string, now time.Time) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldPhoneNumber, phoneNumber),
		ConditionExpression: aws.String("#h = :h AND #e >= :now"),
		ExpressionAttributeNames: map[string]string{
			"#h": fieldCodeHash,
			"#e": fieldExpiresAtMs,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h":   &types.AttributeValueMemberS{Value: codeHash},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return err
}

// Delete removes the item if it still carries codeHash, so a newer code is never
// withdrawn by a stale caller. Missing or replaced items are not an error.
func (r *VerificationRepo) Delete(ctx context.Context, phoneNumber, codeHash string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldPhoneNumber, phoneNumber),
		ConditionExpression:      aws.String("#h = :h"),
		ExpressionAttributeNames: map[string]string{"#h": fieldCodeHash},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h": &types.AttributeValueMemberS{Value: codeHash},
		},
	})
	if isConditionFailed(err) {
		return nil
	}
	return err
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &ccf)
}
