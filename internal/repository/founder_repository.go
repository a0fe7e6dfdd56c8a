package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// FounderPoolInterface defines the database operations needed by FounderRepository.
type FounderPoolInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FounderRepository provides read access to founders and their referrers.
type FounderRepository struct {
	pool FounderPoolInterface
}

// NewFounderRepository creates a new FounderRepository with the given pool.
func NewFounderRepository(pool *pgxpool.Pool) *FounderRepository {
	return &FounderRepository{pool: pool}
}

// NewFounderRepositoryWithPool creates a new FounderRepository with a custom pool interface.
// This is primarily used for testing.
func NewFounderRepositoryWithPool(pool FounderPoolInterface) *FounderRepository {
	return &FounderRepository{pool: pool}
}

// GetWithReferrer retrieves a founder and, when set, the startup that referred them.
// Returns nil, nil if the founder is not found.
func (r *FounderRepository) GetWithReferrer(ctx context.Context, id int64) (*model.Founder, error) {
	query := `SELECT f.id, f.name, f.email, f.referrer_id, s.id, s.name, s.email
		FROM founders f
		LEFT JOIN startups s ON s.id = f.referrer_id
		WHERE f.id = $1`

	var (
		founder      model.Founder
		startupID    *int64
		startupName  *string
		startupEmail *string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&founder.ID,
		&founder.Name,
		&founder.Email,
		&founder.ReferrerID,
		&startupID,
		&startupName,
		&startupEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get founder %d: %w", id, err)
	}

	if startupID != nil {
		founder.Referrer = &model.Startup{ID: *startupID}
		if startupName != nil {
			founder.Referrer.Name = *startupName
		}
		if startupEmail != nil {
			founder.Referrer.Email = *startupEmail
		}
	}
	return &founder, nil
}
