package memory

import (
	"context"
	"sync"
	"time"

	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/id"
)

// UserStore is a phone-keyed user table.
type UserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Upsert merges u into the stored user and reports whether it was created.
func (s *UserStore) Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, exists := s.users[u.PhoneNumber]
	if !exists {
		cur = domain.User{UserID: id.New(), PhoneNumber: u.PhoneNumber, CreatedAt: now}
	}
	if u.FirstName != nil {
		name := *u.FirstName
		cur.FirstName = &name
	}
	if u.PhoneVerified {
		cur.PhoneVerified = true
	}
	cur.UpdatedAt = now
	s.users[u.PhoneNumber] = cur
	out := cur
	return &out, !exists, nil
}

// Get is used by tests and the local driver to inspect state.
func (s *UserStore) Get(_ context.Context, phoneNumber string) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[phoneNumber]
	if !ok {
		return nil, false
	}
	return &u, true
}
