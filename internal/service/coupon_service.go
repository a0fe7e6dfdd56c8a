package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/referral-coupon-system/internal/filter"
	"github.com/fairyhunter13/referral-coupon-system/internal/metrics"
	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListAll(ctx context.Context) ([]model.Coupon, error)
	GetCouponForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
}

// UsageRepositoryInterface defines the interface for coupon usage data access.
type UsageRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, usage *model.CouponUsage) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CouponService provides business logic for coupon operations.
type CouponService struct {
	pool       TxBeginner
	couponRepo CouponRepositoryInterface
	usageRepo  UsageRepositoryInterface
	now        func() time.Time
}

// NewCouponService creates a new CouponService with the given pool and repositories.
func NewCouponService(pool *pgxpool.Pool, couponRepo CouponRepositoryInterface, usageRepo UsageRepositoryInterface) *CouponService {
	return &CouponService{
		pool:       pool,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		now:        time.Now,
	}
}

// NewCouponServiceWithTxBeginner creates a CouponService with a custom TxBeginner and clock.
// Primarily used for testing.
func NewCouponServiceWithTxBeginner(pool TxBeginner, couponRepo CouponRepositoryInterface, usageRepo UsageRepositoryInterface, now func() time.Time) *CouponService {
	if now == nil {
		now = time.Now
	}
	return &CouponService{
		pool:       pool,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		now:        now,
	}
}

// Create creates a new coupon from the request and returns the stored record.
// A request with a referrer startup produces a referral coupon, otherwise a plain one.
// Returns ErrCouponExists or ErrReferrerCouponExists on uniqueness violations,
// ErrReferrerNotFound for an unknown startup and ErrInvalidRequest for incomplete data.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: the handler validates, but the service must not build a half-formed variant
	if req == nil || req.UserExtensionDays == nil || !req.CouponType.Valid() || req.RedeemLimit < 0 {
		return nil, ErrInvalidRequest
	}

	coupon := &model.Coupon{
		Code:              req.Code,
		Type:              req.CouponType,
		UserExtensionDays: int(*req.UserExtensionDays),
		ExpiresAt:         req.ExpiresAt,
		RedeemLimit:       req.RedeemLimit,
	}

	switch {
	case req.ReferrerStartupID != nil && req.ReferrerExtensionDays != nil:
		coupon.Referral = &model.ReferralTerms{
			ReferrerStartupID:     *req.ReferrerStartupID,
			ReferrerExtensionDays: int(*req.ReferrerExtensionDays),
		}
	case req.ReferrerStartupID != nil || req.ReferrerExtensionDays != nil:
		return nil, ErrInvalidRequest
	}

	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByCode retrieves a coupon by code together with its computed validity.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.CouponResponse, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return &model.CouponResponse{
		Coupon:      coupon,
		Kind:        coupon.Kind().String(),
		StillValid:  coupon.StillValid(s.now()),
		RedeemsLeft: coupon.RedeemsLeft(),
	}, nil
}

// FilterIDs runs the registered filter name over all coupons.
// A nil slice means no coupon matched.
// Returns ErrUnknownFilter if no filter is registered under name.
func (s *CouponService) FilterIDs(ctx context.Context, name, value string) ([]int64, error) {
	fn, ok := filter.Lookup(name)
	if !ok {
		return nil, ErrUnknownFilter
	}

	coupons, err := s.couponRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	ids := fn(coupons, value, s.now())
	metrics.RecordFilterEvaluation(name, len(ids))
	return ids, nil
}

// RecordUsage records a usage of the coupon identified by code.
// The coupon row is locked (SELECT FOR UPDATE) so the redeemed count cannot
// move between the validity check and the insert.
// Returns:
//   - ErrCouponNotFound if the coupon doesn't exist
//   - ErrCouponNotRedeemable if a redeemed usage is requested for a coupon that is no longer valid
//   - ErrFounderNotFound if the founder doesn't exist
func (s *CouponService) RecordUsage(ctx context.Context, code string, req *model.RecordUsageRequest) (*model.CouponUsage, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the coupon row
	coupon, err := s.couponRepo.GetCouponForUpdate(ctx, tx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update: %w", err)
	}

	// 2. Only redeemed usages count against the limit
	if req.Redeemed && !coupon.StillValid(s.now()) {
		metrics.RecordCouponUsage("rejected")
		return nil, ErrCouponNotRedeemable
	}

	// 3. Insert usage
	usage := &model.CouponUsage{
		CouponID:  coupon.ID,
		FounderID: req.FounderID,
		Redeemed:  req.Redeemed,
	}
	if err := s.usageRepo.Insert(ctx, tx, usage); err != nil {
		if errors.Is(err, ErrFounderNotFound) {
			return nil, ErrFounderNotFound
		}
		return nil, fmt.Errorf("insert usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit usage: %w", err)
	}

	if usage.Redeemed {
		metrics.RecordCouponUsage("redeemed")
	} else {
		metrics.RecordCouponUsage("unredeemed")
	}
	return usage, nil
}
