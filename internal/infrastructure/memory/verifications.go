// Package memory holds process-local stores. They emulate the atomic
// per-key semantics of the real backends and back tests and local runs.
package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/go-phone-verify/internal/domain"
)

// VerificationStore keeps at most one record per phone number.
type VerificationStore struct {
	mu      sync.Mutex
	records map[string]domain.VerificationRecord
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{records: make(map[string]domain.VerificationRecord)}
}

// Put replaces any record already held for the phone number.
func (s *VerificationStore) Put(ctx context.Context, v *domain.VerificationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[v.PhoneNumber] = *v
	return nil
}

func (s *VerificationStore) Find(ctx context.Context, phoneNumber, codeHash string, now time.Time) (*domain.VerificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[phoneNumber]
	if !ok || !matches(v, codeHash, now) {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

// Consume deletes the record only if it still matches and is live.
func (s *VerificationStore) Consume(ctx context.Context, phoneNumber, codeHash string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[phoneNumber]
	if !ok || !matches(v, codeHash, now) {
		return fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	delete(s.records, phoneNumber)
	return nil
}

// Delete removes the record if it still carries codeHash. Absent is not an error.
func (s *VerificationStore) Delete(ctx context.Context, phoneNumber, codeHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.records[phoneNumber]; ok && v.CodeHash == codeHash {
		delete(s.records, phoneNumber)
	}
	return nil
}

// Len returns the number of stored records, expired ones included.
func (s *VerificationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func matches(v domain.VerificationRecord, codeHash string, now time.Time) bool {
	return subtle.ConstantTimeCompare([]byte(v.CodeHash), []byte(codeHash)) == 1 && v.Live(now)
}
