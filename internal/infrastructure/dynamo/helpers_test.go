package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-phone-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"first_name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "first_name"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"updated_at":     "2026-01-01T00:00:00Z",
		"first_name":     "Ada",
		"phone_verified": true,
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "first_name", ue1.Names["#f0"])
	assert.Equal(t, "phone_verified", ue1.Names["#f1"])
	assert.Equal(t, "updated_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"phone_verified": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestUpsertExpr_VerifyOnly(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ue, err := upsertExpr(domain.UserUpsert{PhoneNumber: "5551234567", PhoneVerified: true}, "ULID1", now)
	require.NoError(t, err)

	assert.Equal(t, "SET #f0 = :v0, #f1 = if_not_exists(#f1, :v1), #f2 = if_not_exists(#f2, :v2), #f3 = :v3", ue.Expr)
	assert.Equal(t, fieldUserID, ue.Names["#f1"])
	assert.Equal(t, fieldPhoneVerified, ue.Names["#f3"])
	id, ok := ue.Values[":v1"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "ULID1", id.Value)
}

func TestUpsertExpr_FirstNameKeepsVerifiedFlag(t *testing.T) {
	name := "Ada"
	ue, err := upsertExpr(domain.UserUpsert{PhoneNumber: "5551234567", FirstName: &name}, "ULID1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "SET #f0 = :v0, #f1 = if_not_exists(#f1, :v1), #f2 = if_not_exists(#f2, :v2), #f3 = :v3, #f4 = if_not_exists(#f4, :v4)", ue.Expr)
	assert.Equal(t, fieldFirstName, ue.Names["#f3"])
	assert.Equal(t, fieldPhoneVerified, ue.Names["#f4"])
}

func TestVerificationItem_TTLRoundsUp(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &domain.VerificationRecord{
		PhoneNumber: "5551234567",
		CodeHash:    "h",
		CreatedAt:   created,
		ExpiresAt:   created.Add(300*time.Second + 250*time.Millisecond),
	}
	it := toItem(v)
	assert.Equal(t, created.Add(301*time.Second).Unix(), it.ExpiresAt)
	assert.Equal(t, v.ExpiresAt.UnixMilli(), it.ExpiresAtMs)

	back := it.record()
	assert.True(t, back.ExpiresAt.Equal(v.ExpiresAt))
	assert.True(t, back.CreatedAt.Equal(created))
}
