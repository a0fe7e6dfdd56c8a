package validator

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "wholenumber" rejects fractional values carried in float fields
	_ = v.RegisterValidation("wholenumber", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return f == math.Trunc(f)
		}
		return true
	})

	// "coupontype" restricts a field to the closed set of coupon types
	_ = v.RegisterValidation("coupontype", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return model.CouponType(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(referralTermsValidation, model.CreateCouponRequest{})

	return v
}

// referralTermsValidation requires referrer_extension_days exactly when a
// referrer startup is set.
func referralTermsValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(model.CreateCouponRequest)
	if !ok {
		return
	}

	switch {
	case req.ReferrerStartupID != nil && req.ReferrerExtensionDays == nil:
		sl.ReportError(req.ReferrerExtensionDays, "ReferrerExtensionDays", "referrer_extension_days", "required_with", "ReferrerStartupID")
	case req.ReferrerStartupID == nil && req.ReferrerExtensionDays != nil:
		sl.ReportError(req.ReferrerExtensionDays, "ReferrerExtensionDays", "referrer_extension_days", "excluded_without", "ReferrerStartupID")
	}
}
