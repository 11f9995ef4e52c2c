package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/id"
)

// UserRepo provides typed DynamoDB operations for the users table.
// PK: phone_number
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Upsert merges u in a single UpdateItem, which creates the item when absent.
// The user_id candidate only sticks on creation, which is how a new row is detected.
func (r *UserRepo) Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	ue, err := upsertExpr(u, id.New(), time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	candidate := ue.Values[":v1"]

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldPhoneNumber, u.PhoneNumber),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, false, err
	}
	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &user); err != nil {
		return nil, false, fmt.Errorf("unmarshal user: %w", err)
	}
	created := false
	if s, ok := candidate.(*types.AttributeValueMemberS); ok {
		created = user.UserID == s.Value
	}
	return &user, created, nil
}

// upsertExpr lays out: updated_at, user_id, created_at, then optional fields.
// user_id is always placeholder :v1.
func upsertExpr(u domain.UserUpsert, newID string, now time.Time) (*updateExpr, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldUpdatedAt: now})
	if err != nil {
		return nil, err
	}
	if err := ue.setIfNotExists(fieldUserID, newID); err != nil {
		return nil, err
	}
	if err := ue.setIfNotExists(fieldCreatedAt, now); err != nil {
		return nil, err
	}
	if u.FirstName != nil {
		if err := ue.add(fieldFirstName, *u.FirstName, false); err != nil {
			return nil, err
		}
	}
	if u.PhoneVerified {
		err = ue.add(fieldPhoneVerified, true, false)
	} else {
		err = ue.setIfNotExists(fieldPhoneVerified, false)
	}
	if err != nil {
		return nil, err
	}
	return ue, nil
}
