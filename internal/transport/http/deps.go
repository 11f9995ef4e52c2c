package http

import (
	"context"

	"github.com/go-phone-verify/internal/application/verification"
	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/clock"
	"github.com/go-phone-verify/internal/pkg/codehash"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo verification.Store
	UserRepo         UserRepository
	Notifier         verification.Notifier // nil when SMS is not configured
	Throttle         verification.Throttle // nil disables the per-phone throttle
	Hasher           *codehash.Hasher
	Clock            clock.Clock
}
