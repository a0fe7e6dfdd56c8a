package service

import "errors"

var (
	// ErrCouponExists is returned when attempting to create a coupon whose code is taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrReferrerCouponExists is returned when the referrer startup already has a coupon
	ErrReferrerCouponExists = errors.New("referrer startup already has a coupon")

	// ErrReferrerNotFound is returned when the referrer startup does not exist
	ErrReferrerNotFound = errors.New("referrer startup not found")

	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrFounderNotFound is returned when a founder cannot be found
	ErrFounderNotFound = errors.New("founder not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCouponNotRedeemable is returned when a redeemed usage is recorded against
	// an expired or used-up coupon
	ErrCouponNotRedeemable = errors.New("coupon is no longer valid")

	// ErrUnknownFilter is returned when no filter is registered under the requested name
	ErrUnknownFilter = errors.New("unknown filter")
)
