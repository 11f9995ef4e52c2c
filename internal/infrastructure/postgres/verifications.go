package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-phone-verify/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerificationRepo keeps one row per phone number in verification_codes.
type VerificationRepo struct {
	pool *pgxpool.Pool
}

func NewVerificationRepo(pool *pgxpool.Pool) *VerificationRepo {
	return &VerificationRepo{pool: pool}
}

// Put upserts on the phone_number key, so there is never a moment with zero or two rows.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.VerificationRecord) error {
	const query = `
		INSERT INTO verification_codes (phone_number, code_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone_number) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
	`
	_, err := r.pool.Exec(ctx, query, v.PhoneNumber, v.CodeHash, v.CreatedAt, v.ExpiresAt)
	return err
}

func (r *VerificationRepo) Find(ctx context.Context, phoneNumber, codeHash string, now time.Time) (*domain.VerificationRecord, error) {
	const query = `
		SELECT phone_number, code_hash, created_at, expires_at
		FROM verification_codes
		WHERE phone_number = $1 AND code_hash = $2 AND expires_at >= $3
	`
	var v domain.VerificationRecord
	err := r.pool.QueryRow(ctx, query, phoneNumber, codeHash, now).Scan(
		&v.PhoneNumber,
		&v.CodeHash,
		&v.CreatedAt,
		&v.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Consume is a single conditional DELETE; only one concurrent caller can see a row affected.
func (r *VerificationRepo) Consume(ctx context.Context, phoneNumber, codeHash string, now time.Time) error {
	const query = `
		DELETE FROM verification_codes
		WHERE phone_number = $1 AND code_hash = $2 AND expires_at >= $3
	`
	tag, err := r.pool.Exec(ctx, query, phoneNumber, codeHash, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *VerificationRepo) Delete(ctx context.Context, phoneNumber, codeHash string) error {
	const query = `DELETE FROM verification_codes WHERE phone_number = $1 AND code_hash = $2`
	_, err := r.pool.Exec(ctx, query, phoneNumber, codeHash)
	return err
}
