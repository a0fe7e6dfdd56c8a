package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

func floatPtr(f float64) *float64 {
	return &f
}

func int64Ptr(i int64) *int64 {
	return &i
}

// validRequest returns a plain coupon request that passes validation.
func validRequest() model.CreateCouponRequest {
	return model.CreateCouponRequest{
		Code:              "SAVE10",
		CouponType:        model.CouponTypeDiscount,
		UserExtensionDays: floatPtr(14),
	}
}

// failedTag returns the tag of the first validation error reported for field.
func failedTag(t *testing.T, err error, field string) string {
	t.Helper()
	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve), "expected validator.ValidationErrors, got %v", err)
	for _, fe := range ve {
		if fe.Field() == field {
			return fe.Tag()
		}
	}
	t.Fatalf("no validation error for field %s in %v", field, err)
	return ""
}

// TestNew verifies that New() returns a properly configured validator
func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v, "New() should return a non-nil validator")
}

// TestNotblankValidator tests the custom notblank validation
func TestNotblankValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"notblank"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid_string", "valid", false},
		{"valid_with_spaces", "  valid  ", false},
		{"whitespace_only_spaces", "   ", true},
		{"whitespace_only_tabs", "\t\t", true},
		{"whitespace_mixed", " \t\n ", true},
		{"empty_string", "", true},
		{"unicode_content", "日本語", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(TestStruct{Name: tc.input})
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNotblankOnNonStringField tests that notblank handles non-string fields gracefully
func TestNotblankOnNonStringField(t *testing.T) {
	v := New()

	type TestStructInt struct {
		Value int `validate:"notblank"`
	}

	assert.NoError(t, v.Struct(TestStructInt{Value: 0}), "notblank should pass for non-string types")
}

func TestWholenumberValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Days *float64 `validate:"omitempty,wholenumber"`
	}

	assert.NoError(t, v.Struct(TestStruct{Days: floatPtr(7)}))
	assert.NoError(t, v.Struct(TestStruct{Days: nil}), "nil should be skipped by omitempty")
	assert.Error(t, v.Struct(TestStruct{Days: floatPtr(7.5)}))
	assert.Error(t, v.Struct(TestStruct{Days: floatPtr(0.001)}))
}

func TestCoupontypeValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Type model.CouponType `validate:"coupontype"`
	}

	for _, ct := range model.CouponTypes() {
		assert.NoError(t, v.Struct(TestStruct{Type: ct}), "type %q should be accepted", ct)
	}
	assert.Error(t, v.Struct(TestStruct{Type: "Giveaway"}))
	assert.Error(t, v.Struct(TestStruct{Type: "discount"}), "membership is case sensitive")
	assert.Error(t, v.Struct(TestStruct{Type: ""}))
}

func TestCreateCouponRequest_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(validRequest()))

	referral := validRequest()
	referral.CouponType = model.CouponTypeReferral
	referral.ReferrerStartupID = int64Ptr(42)
	referral.ReferrerExtensionDays = floatPtr(31)
	assert.NoError(t, v.Struct(referral))
}

func TestCreateCouponRequest_CodeLength(t *testing.T) {
	v := New()

	testCases := []struct {
		name        string
		code        string
		expectedTag string
	}{
		{"empty", "", "required"},
		{"whitespace", "     ", "notblank"},
		{"too_short", "ABC", "min"},
		{"too_long", "ABCDEFGHIJK", "max"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Code = tc.code
			err := v.Struct(req)
			require.Error(t, err)
			assert.Equal(t, tc.expectedTag, failedTag(t, err, "Code"))
		})
	}

	for _, code := range []string{"ABCD", "ABCDEFGHIJ"} {
		req := validRequest()
		req.Code = code
		assert.NoError(t, v.Struct(req), "code %q is within [4,10]", code)
	}
}

func TestCreateCouponRequest_UserExtensionDaysBounds(t *testing.T) {
	v := New()

	testCases := []struct {
		name        string
		days        *float64
		expectedTag string
	}{
		{"missing", nil, "required"},
		{"zero", floatPtr(0), "gte"},
		{"thirty_two", floatPtr(32), "lte"},
		{"fractional", floatPtr(1.5), "wholenumber"},
		{"negative", floatPtr(-3), "gte"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.UserExtensionDays = tc.days
			err := v.Struct(req)
			require.Error(t, err)
			assert.Equal(t, tc.expectedTag, failedTag(t, err, "UserExtensionDays"))
		})
	}

	for _, days := range []float64{1, 31} {
		req := validRequest()
		req.UserExtensionDays = floatPtr(days)
		assert.NoError(t, v.Struct(req), "%v days should be accepted", days)
	}
}

func TestCreateCouponRequest_ReferrerExtensionDays(t *testing.T) {
	v := New()

	t.Run("required_with_referrer", func(t *testing.T) {
		req := validRequest()
		req.ReferrerStartupID = int64Ptr(7)
		err := v.Struct(req)
		require.Error(t, err)
		assert.Equal(t, "required_with", failedTag(t, err, "ReferrerExtensionDays"))
	})

	t.Run("excluded_without_referrer", func(t *testing.T) {
		req := validRequest()
		req.ReferrerExtensionDays = floatPtr(5)
		err := v.Struct(req)
		require.Error(t, err)
		assert.Equal(t, "excluded_without", failedTag(t, err, "ReferrerExtensionDays"))
	})

	t.Run("out_of_range", func(t *testing.T) {
		req := validRequest()
		req.ReferrerStartupID = int64Ptr(7)
		req.ReferrerExtensionDays = floatPtr(32)
		err := v.Struct(req)
		require.Error(t, err)
		assert.Equal(t, "lte", failedTag(t, err, "ReferrerExtensionDays"))
	})

	t.Run("fractional", func(t *testing.T) {
		req := validRequest()
		req.ReferrerStartupID = int64Ptr(7)
		req.ReferrerExtensionDays = floatPtr(2.25)
		err := v.Struct(req)
		require.Error(t, err)
		assert.Equal(t, "wholenumber", failedTag(t, err, "ReferrerExtensionDays"))
	})
}

func TestCreateCouponRequest_NegativeRedeemLimit(t *testing.T) {
	v := New()

	req := validRequest()
	req.RedeemLimit = -1
	err := v.Struct(req)
	require.Error(t, err)
	assert.Equal(t, "gte", failedTag(t, err, "RedeemLimit"))
}
