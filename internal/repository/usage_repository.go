package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
	"github.com/fairyhunter13/referral-coupon-system/pkg/database"
)

// UsageRepository provides data access for coupon usages using pgx.
type UsageRepository struct{}

// NewUsageRepository creates a new UsageRepository.
// Every method runs on the transaction it is given.
func NewUsageRepository() *UsageRepository {
	return &UsageRepository{}
}

// Insert inserts a usage record within a transaction and fills its ID and CreatedAt.
// Returns service.ErrFounderNotFound if the founder does not exist.
func (r *UsageRepository) Insert(ctx context.Context, tx database.TxQuerier, usage *model.CouponUsage) error {
	query := `INSERT INTO coupon_usages (coupon_id, founder_id, redeemed) VALUES ($1, $2, $3) RETURNING id, created_at`

	err := tx.QueryRow(ctx, query, usage.CouponID, usage.FounderID, usage.Redeemed).
		Scan(&usage.ID, &usage.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraintUsageFounderFkey {
			return service.ErrFounderNotFound
		}
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}
