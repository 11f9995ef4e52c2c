package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/clock"
	"github.com/go-phone-verify/internal/pkg/codehash"
	"github.com/go-phone-verify/internal/pkg/otpcode"
	"github.com/go-phone-verify/internal/pkg/phone"
)

// DefaultTTL applies when Config.TTL is zero.
const DefaultTTL = 300 * time.Second

// revokeTimeout bounds the cleanup delete after a failed delivery, which runs
// even if the request context is already done.
const revokeTimeout = 5 * time.Second

// Store is the OTP store contract. Implementations must make Put a single
// replace-by-key write and Consume a single conditional delete.
type Store interface {
	Put(ctx context.Context, v *domain.VerificationRecord) error
	// Find returns domain.ErrNotFound unless phone, hash and expiry all match.
	Find(ctx context.Context, phoneNumber, codeHash string, now time.Time) (*domain.VerificationRecord, error)
	// Consume deletes the record only if it still matches and is live, else domain.ErrNotFound.
	Consume(ctx context.Context, phoneNumber, codeHash string, now time.Time) error
	// Delete removes the record if it still carries codeHash. Idempotent.
	Delete(ctx context.Context, phoneNumber, codeHash string) error
}

// Notifier delivers a message to a phone number.
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// Throttle limits issuance per phone number.
type Throttle interface {
	Allow(ctx context.Context, phoneNumber string) bool
}

type Config struct {
	TTL                     time.Duration
	DevelopmentMode         bool
	RevokeOnDeliveryFailure bool
}

type ServiceDeps struct {
	Store    Store
	Notifier Notifier // nil when no SMS provider is configured
	Throttle Throttle // optional
	Hasher   *codehash.Hasher
	Clock    clock.Clock
	Generate func() (string, error)
}

type Service interface {
	// Issue stores a fresh code for the phone number, superseding any pending one,
	// and delivers it (or returns it when the development bypass is on).
	Issue(ctx context.Context, phoneNumber string) (*domain.IssueResult, error)
	// Verify consumes the matching live code. Every miss is ErrInvalidOrExpiredCode.
	Verify(ctx context.Context, phoneNumber, code string) (*domain.VerificationRecord, error)
	DeliveryConfigured() bool
}

type service struct {
	cfg      Config
	store    Store
	notifier Notifier
	throttle Throttle
	hasher   *codehash.Hasher
	clock    clock.Clock
	generate func() (string, error)
}

func NewService(cfg Config, deps ServiceDeps) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	s := &service{
		cfg:      cfg,
		store:    deps.Store,
		notifier: deps.Notifier,
		throttle: deps.Throttle,
		hasher:   deps.Hasher,
		clock:    deps.Clock,
		generate: deps.Generate,
	}
	if s.hasher == nil {
		s.hasher = codehash.New("")
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.generate == nil {
		s.generate = otpcode.Generate
	}
	return s
}

func (s *service) DeliveryConfigured() bool { return s.notifier != nil }

func (s *service) Issue(ctx context.Context, rawPhone string) (*domain.IssueResult, error) {
	phoneNumber, ok := phone.Normalize(rawPhone)
	if !ok {
		return nil, domain.NewValidationError("phoneNumber", "phoneNumber must be 10-15 digits, optionally prefixed with '+'")
	}
	if s.throttle != nil && !s.throttle.Allow(ctx, phoneNumber) {
		return nil, fmt.Errorf("issue code: %w", domain.ErrTooManyRequests)
	}
	if !s.cfg.DevelopmentMode && s.notifier == nil {
		return nil, fmt.Errorf("issue code: %w", domain.ErrDeliveryUnavailable)
	}

	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	rec := &domain.VerificationRecord{
		PhoneNumber: phoneNumber,
		CodeHash:    s.hasher.Sum(phoneNumber, code),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.TTL),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store code: %w: %w", domain.ErrStorage, err)
	}
	slog.Info("verification code issued", "phone_number", phoneNumber, "expires_at", rec.ExpiresAt)

	res := &domain.IssueResult{PhoneNumber: phoneNumber, ExpiresAt: rec.ExpiresAt}
	if s.cfg.DevelopmentMode {
		res.Code = code
		res.Development = true
		return res, nil
	}

	if err := s.notifier.Send(ctx, phoneNumber, message(code, s.cfg.TTL)); err != nil {
		slog.Warn("verification code delivery failed", "phone_number", phoneNumber, "revoke", s.cfg.RevokeOnDeliveryFailure, "err", err)
		if s.cfg.RevokeOnDeliveryFailure {
			s.revoke(ctx, rec)
		}
		return nil, fmt.Errorf("deliver code: %w: %w", domain.ErrDelivery, err)
	}
	return res, nil
}

// revoke withdraws rec unless a newer code already replaced it.
func (s *service) revoke(ctx context.Context, rec *domain.VerificationRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revokeTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, rec.PhoneNumber, rec.CodeHash); err != nil {
		slog.Error("failed to revoke undelivered code", "phone_number", rec.PhoneNumber, "err", err)
	}
}

func (s *service) Verify(ctx context.Context, rawPhone, code string) (*domain.VerificationRecord, error) {
	phoneNumber, ok := phone.Normalize(rawPhone)
	if !ok {
		return nil, domain.NewValidationError("phoneNumber", "phoneNumber must be 10-15 digits, optionally prefixed with '+'")
	}
	if !otpcode.Valid(code) {
		return nil, domain.NewValidationError("code", "code must be exactly 6 digits")
	}

	hash := s.hasher.Sum(phoneNumber, code)
	now := s.clock.Now()
	rec, err := s.store.Find(ctx, phoneNumber, hash, now)
	if err != nil {
		return nil, classify("find code", err)
	}
	// A concurrent verify or a superseding issue may win between Find and here;
	// the conditional delete is what decides.
	if err := s.store.Consume(ctx, phoneNumber, hash, now); err != nil {
		return nil, classify("consume code", err)
	}
	slog.Info("verification code consumed", "phone_number", phoneNumber)
	return rec, nil
}

func classify(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidOrExpiredCode)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func message(code string, ttl time.Duration) string {
	if ttl < time.Minute {
		return fmt.Sprintf("Your verification code is: %s. It expires in %d seconds.", code, int(ttl/time.Second))
	}
	return fmt.Sprintf("Your verification code is: %s. It expires in %d minutes.", code, int(ttl/time.Minute))
}
