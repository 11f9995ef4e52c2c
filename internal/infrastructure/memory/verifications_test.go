package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-phone-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func record(phone, hash string, ttl time.Duration) *domain.VerificationRecord {
	return &domain.VerificationRecord{PhoneNumber: phone, CodeHash: hash, CreatedAt: t0, ExpiresAt: t0.Add(ttl)}
}

func TestPut_Supersedes(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "a", time.Minute)))
	require.NoError(t, s.Put(ctx, record("5551234567", "b", time.Minute)))

	assert.Equal(t, 1, s.Len())
	_, err := s.Find(ctx, "5551234567", "a", t0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	got, err := s.Find(ctx, "5551234567", "b", t0)
	require.NoError(t, err)
	assert.Equal(t, "b", got.CodeHash)
}

func TestFind_ExpiryIsInclusive(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "a", time.Second)))

	_, err := s.Find(ctx, "5551234567", "a", t0.Add(time.Second))
	assert.NoError(t, err)
	_, err = s.Find(ctx, "5551234567", "a", t0.Add(time.Second+time.Nanosecond))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, s.Len(), "expired records stay until superseded")
}

func TestConsume_SingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "a", time.Minute)))

	require.NoError(t, s.Consume(ctx, "5551234567", "a", t0))
	err := s.Consume(ctx, "5551234567", "a", t0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConsume_WrongHashKeepsRecord(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "a", time.Minute)))

	err := s.Consume(ctx, "5551234567", "b", t0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, s.Len())
}

func TestConsume_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "a", time.Minute)))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Consume(ctx, "5551234567", "a", t0) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestDelete_OnlyMatchingHash(t *testing.T) {
	ctx := context.Background()
	s := NewVerificationStore()
	require.NoError(t, s.Put(ctx, record("5551234567", "new", time.Minute)))

	require.NoError(t, s.Delete(ctx, "5551234567", "old"))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Delete(ctx, "5551234567", "new"))
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.Delete(ctx, "5551234567", "new"), "delete is idempotent")
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewVerificationStore()
	assert.Error(t, s.Put(ctx, record("5551234567", "a", time.Minute)))
	assert.Equal(t, 0, s.Len())
}
