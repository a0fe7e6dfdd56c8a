package model

import "time"

// CouponType is the closed set of coupon categories.
type CouponType string

const (
	CouponTypeDiscount                CouponType = "Discount"
	CouponTypeMicrosoftStudentPartner CouponType = "Microsoft Student Partner"
	CouponTypeReferral                CouponType = "Referral"
)

// CouponTypes returns every accepted coupon type.
func CouponTypes() []CouponType {
	return []CouponType{CouponTypeDiscount, CouponTypeMicrosoftStudentPartner, CouponTypeReferral}
}

// Valid reports whether t is one of the known coupon types.
func (t CouponType) Valid() bool {
	switch t {
	case CouponTypeDiscount, CouponTypeMicrosoftStudentPartner, CouponTypeReferral:
		return true
	}
	return false
}

// CouponKind distinguishes plain coupons from coupons tied to a referring startup.
type CouponKind int

const (
	CouponKindPlain CouponKind = iota
	CouponKindReferral
)

func (k CouponKind) String() string {
	if k == CouponKindReferral {
		return "referral"
	}
	return "plain"
}

// ReferralTerms holds the fields that only exist on referral coupons.
// Both are required whenever a coupon has a referrer startup.
type ReferralTerms struct {
	ReferrerStartupID     int64 `json:"referrer_startup_id"`
	ReferrerExtensionDays int   `json:"referrer_extension_days"`
}

// Coupon represents a signup incentive code.
// RedeemedCount is filled by the repository from coupon_usages and is never written.
type Coupon struct {
	ID                int64          `json:"id"`
	Code              string         `json:"code"`
	Type              CouponType     `json:"coupon_type"`
	UserExtensionDays int            `json:"user_extension_days"`
	Referral          *ReferralTerms `json:"referral,omitempty"`
	ExpiresAt         *time.Time     `json:"expires_at"`
	RedeemLimit       int            `json:"redeem_limit"`
	RedeemedCount     int            `json:"redeemed_count"`
	CreatedAt         time.Time      `json:"-"`
}

// Kind reports whether c is a plain or a referral coupon.
func (c *Coupon) Kind() CouponKind {
	if c.Referral != nil {
		return CouponKindReferral
	}
	return CouponKindPlain
}

// RedeemsLeft reports whether the coupon can still be redeemed.
// A RedeemLimit of 0 means unlimited.
func (c *Coupon) RedeemsLeft() bool {
	if c.RedeemLimit == 0 {
		return true
	}
	return c.RedeemedCount < c.RedeemLimit
}

// StillValid reports whether the coupon has not expired at now and has redeems left.
// A nil ExpiresAt never expires.
func (c *Coupon) StillValid(now time.Time) bool {
	return (c.ExpiresAt == nil || c.ExpiresAt.After(now)) && c.RedeemsLeft()
}

// CouponUsage is a single use of a coupon by a founder.
type CouponUsage struct {
	ID        int64     `json:"id"`
	CouponID  int64     `json:"coupon_id"`
	FounderID int64     `json:"founder_id"`
	Redeemed  bool      `json:"redeemed"`
	CreatedAt time.Time `json:"created_at"`
}

// CouponResponse is the API response DTO for GET /api/coupons/:code
type CouponResponse struct {
	*Coupon
	Kind        string `json:"kind"`
	StillValid  bool   `json:"still_valid"`
	RedeemsLeft bool   `json:"redeems_left"`
}

// CreateCouponRequest is the DTO for creating a coupon.
// Extension days arrive as float64 so fractional values reach the wholenumber check
// instead of failing JSON decoding. The pairing of ReferrerStartupID and
// ReferrerExtensionDays is checked at struct level (see validator.New).
type CreateCouponRequest struct {
	Code                  string     `json:"code" validate:"required,notblank,min=4,max=10"`
	CouponType            CouponType `json:"coupon_type" validate:"required,coupontype"`
	ReferrerStartupID     *int64     `json:"referrer_startup_id" validate:"omitempty,gte=1"`
	UserExtensionDays     *float64   `json:"user_extension_days" validate:"required,wholenumber,gte=1,lte=31"`
	ReferrerExtensionDays *float64   `json:"referrer_extension_days" validate:"omitempty,wholenumber,gte=1,lte=31"`
	ExpiresAt             *time.Time `json:"expires_at"`
	RedeemLimit           int        `json:"redeem_limit" validate:"gte=0"`
}

// RecordUsageRequest is the DTO for POST /api/coupons/:code/usages
type RecordUsageRequest struct {
	FounderID int64 `json:"founder_id" validate:"required,gte=1"`
	Redeemed  bool  `json:"redeemed"`
}

// FilterResponse carries the identifiers matched by an admin filter.
// IDs is null when no record matched.
type FilterResponse struct {
	Filter string  `json:"filter"`
	Value  string  `json:"value"`
	IDs    []int64 `json:"ids"`
}
