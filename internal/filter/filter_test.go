package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

// sampleCoupons returns two valid coupons (1, 4), one used up (2) and one expired (3).
func sampleCoupons() []model.Coupon {
	return []model.Coupon{
		{ID: 1, Code: "FOREVER", RedeemLimit: 0, RedeemedCount: 500},
		{ID: 2, Code: "SAVE10", RedeemLimit: 5, RedeemedCount: 5},
		{ID: 3, Code: "OLDIE", ExpiresAt: timePtr(now.Add(-time.Hour))},
		{ID: 4, Code: "FRESH", ExpiresAt: timePtr(now.Add(time.Hour)), RedeemLimit: 3, RedeemedCount: 2},
	}
}

func TestByValidity_Valid(t *testing.T) {
	ids := ByValidity(sampleCoupons(), ValidityValid, now)
	assert.Equal(t, []int64{1, 4}, ids)
}

func TestByValidity_Invalid(t *testing.T) {
	ids := ByValidity(sampleCoupons(), ValidityInvalid, now)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestByValidity_OtherTokenReturnsAll(t *testing.T) {
	for _, token := range []string{"", "All", "valid", "anything"} {
		t.Run(token, func(t *testing.T) {
			ids := ByValidity(sampleCoupons(), token, now)
			assert.Equal(t, []int64{1, 2, 3, 4}, ids)
		})
	}
}

func TestByValidity_ExactlyOneValid(t *testing.T) {
	coupons := []model.Coupon{
		{ID: 10, Code: "SAVE10", RedeemLimit: 5, RedeemedCount: 5},
		{ID: 11, Code: "GOOD", RedeemLimit: 5, RedeemedCount: 1},
		{ID: 12, Code: "GONE", ExpiresAt: timePtr(now.Add(-24 * time.Hour))},
	}

	ids := ByValidity(coupons, ValidityValid, now)
	assert.Equal(t, []int64{11}, ids)
}

func TestByValidity_NoMatchReturnsNil(t *testing.T) {
	coupons := []model.Coupon{
		{ID: 1, Code: "FOREVER"},
	}
	assert.Nil(t, ByValidity(coupons, ValidityInvalid, now), "no match should signal no filter")
	assert.Nil(t, ByValidity(nil, ValidityValid, now))
	assert.Nil(t, ByValidity(nil, "", now), "empty coupon set matches nothing")
}

func TestLookup(t *testing.T) {
	fn, ok := Lookup("validity")
	require.True(t, ok)
	require.NotNil(t, fn)
	assert.Equal(t, []int64{1, 4}, fn(sampleCoupons(), ValidityValid, now))

	_, ok = Lookup("popularity")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"kind", "validity"}, Names())
}

func referralCoupons() []model.Coupon {
	return []model.Coupon{
		{ID: 1, Code: "PLAIN"},
		{ID: 2, Code: "ACME", Referral: &model.ReferralTerms{ReferrerStartupID: 7, ReferrerExtensionDays: 14}},
		{ID: 3, Code: "OTHER"},
		{ID: 4, Code: "GLOBEX", Referral: &model.ReferralTerms{ReferrerStartupID: 8, ReferrerExtensionDays: 3}},
	}
}

func TestByKind(t *testing.T) {
	tests := []struct {
		value string
		want  []int64
	}{
		{KindReferral, []int64{2, 4}},
		{KindPlain, []int64{1, 3}},
		{"", []int64{1, 2, 3, 4}},
		{"Referral", []int64{1, 2, 3, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.want, ByKind(referralCoupons(), tc.value, now))
		})
	}
}

func TestByKind_NoMatchReturnsNil(t *testing.T) {
	assert.Nil(t, ByKind([]model.Coupon{{ID: 1, Code: "PLAIN"}}, KindReferral, now))
}

func TestLookup_Kind(t *testing.T) {
	fn, ok := Lookup("kind")
	require.True(t, ok)
	assert.Equal(t, []int64{2, 4}, fn(referralCoupons(), KindReferral, now))
}
