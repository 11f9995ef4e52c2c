package postgres

import (
	"context"
	"time"

	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/id"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Upsert resolves concurrent writers on the phone_number conflict.
// xmax = 0 only holds for a freshly inserted tuple.
func (r *UserRepo) Upsert(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	const query = `
		INSERT INTO users (user_id, phone_number, first_name, phone_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (phone_number) DO UPDATE
		SET first_name = COALESCE(EXCLUDED.first_name, users.first_name),
		    phone_verified = users.phone_verified OR EXCLUDED.phone_verified,
		    updated_at = EXCLUDED.updated_at
		RETURNING user_id, phone_number, first_name, phone_verified, created_at, updated_at, (xmax = 0)
	`
	var (
		out     domain.User
		created bool
	)
	err := r.pool.QueryRow(ctx, query,
		id.New(),
		u.PhoneNumber,
		u.FirstName,
		u.PhoneVerified,
		time.Now().UTC(),
	).Scan(
		&out.UserID,
		&out.PhoneNumber,
		&out.FirstName,
		&out.PhoneVerified,
		&out.CreatedAt,
		&out.UpdatedAt,
		&created,
	)
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}
