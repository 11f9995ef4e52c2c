package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-phone-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	args := m.Called(ctx, u)
	if usr, _ := args.Get(0).(*domain.User); usr != nil {
		return usr, args.Bool(1), args.Error(2)
	}
	return nil, false, args.Error(2)
}

func strPtr(s string) *string { return &s }

// --- Upsert ---

func TestUpsert_NormalizesAndTrims(t *testing.T) {
	us := &mockUserStore{}
	us.On("Upsert", mock.Anything, domain.UserUpsert{PhoneNumber: "+15551234567", FirstName: strPtr("Ada")}).
		Return(&domain.User{UserID: "u1", PhoneNumber: "+15551234567", FirstName: strPtr("Ada")}, true, nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	u, created, err := svc.Upsert(context.Background(), domain.UserUpsert{PhoneNumber: "+1 555-123-4567", FirstName: strPtr("  Ada ")})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "u1", u.UserID)
	us.AssertExpectations(t)
}

func TestUpsert_InvalidPhone(t *testing.T) {
	us := &mockUserStore{}
	svc := NewService(ServiceDeps{UserRepo: us})

	_, _, err := svc.Upsert(context.Background(), domain.UserUpsert{PhoneNumber: "123"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	us.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsert_BlankFirstName(t *testing.T) {
	us := &mockUserStore{}
	svc := NewService(ServiceDeps{UserRepo: us})

	_, _, err := svc.Upsert(context.Background(), domain.UserUpsert{PhoneNumber: "5551234567", FirstName: strPtr("   ")})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "firstName")
}

func TestUpsert_StoreErrorIsStorage(t *testing.T) {
	us := &mockUserStore{}
	us.On("Upsert", mock.Anything, mock.Anything).Return(nil, false, errors.New("timeout"))

	svc := NewService(ServiceDeps{UserRepo: us})
	_, _, err := svc.Upsert(context.Background(), domain.UserUpsert{PhoneNumber: "5551234567"})
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

// --- MarkVerified ---

func TestMarkVerified_SetsFlagOnly(t *testing.T) {
	us := &mockUserStore{}
	us.On("Upsert", mock.Anything, domain.UserUpsert{PhoneNumber: "5551234567", PhoneVerified: true}).
		Return(&domain.User{UserID: "u1", PhoneNumber: "5551234567", PhoneVerified: true}, false, nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	u, created, err := svc.MarkVerified(context.Background(), "5551234567")

	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, u.PhoneVerified)
	us.AssertExpectations(t)
}
