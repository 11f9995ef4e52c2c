package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/phone"
)

type Service interface {
	// Upsert creates or merges the user keyed by phone number and reports whether it was created.
	Upsert(ctx context.Context, req domain.UserUpsert) (*domain.User, bool, error)
	// MarkVerified flips phone_verified after a consumed code, creating the user if needed.
	MarkVerified(ctx context.Context, phoneNumber string) (*domain.User, bool, error)
}

type userStore interface {
	Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error)
}

type service struct {
	repo userStore
}

type ServiceDeps struct {
	UserRepo userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo}
}

func (s *service) Upsert(ctx context.Context, req domain.UserUpsert) (*domain.User, bool, error) {
	phoneNumber, ok := phone.Normalize(req.PhoneNumber)
	if !ok {
		return nil, false, domain.NewValidationError("phoneNumber", "phoneNumber must be 10-15 digits, optionally prefixed with '+'")
	}
	req.PhoneNumber = phoneNumber
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, false, domain.NewValidationError("firstName", "firstName must not be blank")
		}
		req.FirstName = &name
	}

	u, created, err := s.repo.Upsert(ctx, req)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w: %w", domain.ErrStorage, err)
	}
	slog.Info("user upserted", "phone_number", phoneNumber, "user_id", u.UserID, "new_user", created, "phone_verified", u.PhoneVerified)
	return u, created, nil
}

func (s *service) MarkVerified(ctx context.Context, phoneNumber string) (*domain.User, bool, error) {
	return s.Upsert(ctx, domain.UserUpsert{PhoneNumber: phoneNumber, PhoneVerified: true})
}
