// Package filter holds the named admin filters over coupons.
//
// Each filter is a pure function from the full coupon set and a requested
// value to the identifiers of the matching coupons. The admin query layer
// resolves filters by name through Registry.
package filter

import (
	"sort"
	"time"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// Tokens accepted by the validity filter. Any other value matches every coupon.
const (
	ValidityValid   = "Valid"
	ValidityInvalid = "Invalid"
)

// Tokens accepted by the kind filter. Any other value matches every coupon.
const (
	KindPlain    = "plain"
	KindReferral = "referral"
)

// Func selects coupon identifiers for a requested filter value.
// A nil result means no coupon matched and no filter should be applied.
type Func func(coupons []model.Coupon, value string, now time.Time) []int64

// Registry maps filter names to their implementations.
var Registry = map[string]Func{
	"validity": ByValidity,
	"kind":     ByKind,
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := Registry[name]
	return fn, ok
}

// Names returns the registered filter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByValidity keeps coupons whose StillValid result matches value.
// "Valid" keeps valid coupons, "Invalid" keeps the rest, anything else keeps all.
func ByValidity(coupons []model.Coupon, value string, now time.Time) []int64 {
	var ids []int64
	for i := range coupons {
		c := &coupons[i]
		switch value {
		case ValidityValid:
			if !c.StillValid(now) {
				continue
			}
		case ValidityInvalid:
			if c.StillValid(now) {
				continue
			}
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// ByKind keeps coupons of the requested kind.
// "referral" keeps coupons tied to a referrer startup, "plain" keeps the rest,
// anything else keeps all.
func ByKind(coupons []model.Coupon, value string, _ time.Time) []int64 {
	var ids []int64
	for i := range coupons {
		c := &coupons[i]
		switch value {
		case KindPlain, KindReferral:
			if c.Kind().String() != value {
				continue
			}
		}
		ids = append(ids, c.ID)
	}
	return ids
}
