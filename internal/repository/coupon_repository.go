package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
	"github.com/fairyhunter13/referral-coupon-system/pkg/database"
)

// PostgreSQL error codes and constraint names mapped to service errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintCouponCode       = "coupons_code_key"
	constraintReferrerStartup  = "coupons_referrer_startup_id_key"
	constraintUsageFounderFkey = "coupon_usages_founder_id_fkey"
)

// couponColumns selects a coupon with its redeemed usage count.
const couponColumns = `c.id, c.code, c.coupon_type, c.referrer_startup_id, c.user_extension_days,
	c.referrer_extension_days, c.expires_at, c.redeem_limit, c.created_at,
	(SELECT COUNT(*) FROM coupon_usages u WHERE u.coupon_id = c.id AND u.redeemed) AS redeemed_count`

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon and fills its ID and CreatedAt.
// Returns service.ErrCouponExists for a duplicate code,
// service.ErrReferrerCouponExists for a second coupon of the same referrer startup and
// service.ErrReferrerNotFound when the referrer startup does not exist.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	var referrerID *int64
	var referrerDays *int
	if coupon.Referral != nil {
		referrerID = &coupon.Referral.ReferrerStartupID
		referrerDays = &coupon.Referral.ReferrerExtensionDays
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (code, coupon_type, referrer_startup_id, user_extension_days,
			referrer_extension_days, expires_at, redeem_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		coupon.Code, string(coupon.Type), referrerID, coupon.UserExtensionDays,
		referrerDays, coupon.ExpiresAt, coupon.RedeemLimit,
	).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintReferrerStartup:
				return service.ErrReferrerCouponExists
			case pgErr.Code == pgUniqueViolation:
				return service.ErrCouponExists
			case pgErr.Code == pgForeignKeyViolation:
				return service.ErrReferrerNotFound
			}
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons c WHERE c.code = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return coupon, nil
}

// ListAll retrieves every coupon ordered by id.
// On success, returns an empty slice (not nil) when no coupons exist.
func (r *CouponRepository) ListAll(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons c ORDER BY c.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// GetCouponForUpdate retrieves a coupon with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) GetCouponForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons c WHERE c.code = $1 FOR UPDATE OF c`

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update %s: %w", code, err)
	}

	// The locking statement's count comes from the snapshot taken before the
	// lock wait. Usages committed by the previous lock holder are only visible
	// to a new statement.
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND redeemed`,
		coupon.ID,
	).Scan(&coupon.RedeemedCount)
	if err != nil {
		return nil, fmt.Errorf("count redeemed usages %s: %w", code, err)
	}
	return coupon, nil
}

// scanCoupon reads one row selected with couponColumns.
func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var (
		coupon       model.Coupon
		couponType   string
		referrerID   *int64
		referrerDays *int
		expiresAt    *time.Time
	)

	err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&couponType,
		&referrerID,
		&coupon.UserExtensionDays,
		&referrerDays,
		&expiresAt,
		&coupon.RedeemLimit,
		&coupon.CreatedAt,
		&coupon.RedeemedCount,
	)
	if err != nil {
		return nil, err
	}

	coupon.Type = model.CouponType(couponType)
	coupon.ExpiresAt = expiresAt
	if referrerID != nil {
		coupon.Referral = &model.ReferralTerms{ReferrerStartupID: *referrerID}
		if referrerDays != nil {
			coupon.Referral.ReferrerExtensionDays = *referrerDays
		}
	}
	return &coupon, nil
}
