package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.CouponResponse, error)
	RecordUsage(ctx context.Context, code string, req *model.RecordUsageRequest) (*model.CouponUsage, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// fieldNames maps struct fields to their JSON names for error messages.
var fieldNames = map[string]string{
	"Code":                  "code",
	"CouponType":            "coupon_type",
	"ReferrerStartupID":     "referrer_startup_id",
	"UserExtensionDays":     "user_extension_days",
	"ReferrerExtensionDays": "referrer_extension_days",
	"RedeemLimit":           "redeem_limit",
	"FounderID":             "founder_id",
}

// formatValidationError converts the first validator error to a field-level message.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field, ok := fieldNames[fe.Field()]
	if !ok {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be whitespace only"
	case "min":
		return "invalid request: " + field + " must be at least " + fe.Param() + " characters"
	case "max":
		return "invalid request: " + field + " must be at most " + fe.Param() + " characters"
	case "gte":
		return "invalid request: " + field + " must be at least " + fe.Param()
	case "lte":
		return "invalid request: " + field + " must be at most " + fe.Param()
	case "wholenumber":
		return "invalid request: " + field + " must be an integer"
	case "coupontype":
		return "invalid request: " + field + " must be one of " + couponTypeList()
	case "required_with":
		return "invalid request: " + field + " is required when referrer_startup_id is set"
	case "excluded_without":
		return "invalid request: " + field + " is only allowed when referrer_startup_id is set"
	}
	return "invalid request: " + field + " is invalid"
}

func couponTypeList() string {
	types := model.CouponTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// CreateCoupon handles POST /api/coupons requests to create a new coupon.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "code has already been taken"})
		case errors.Is(err, service.ErrReferrerCouponExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "referrer_startup_id has already been taken"})
		case errors.Is(err, service.ErrReferrerNotFound):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "referrer startup not found"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("code", req.Code).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Int64("coupon_id", coupon.ID).
		Str("code", coupon.Code).
		Str("kind", coupon.Kind().String()).
		Msg("coupon created")

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// GetCoupon handles GET /api/coupons/:code requests to retrieve coupon details.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: code is required",
		})
	}

	coupon, err := h.service.GetByCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "coupon not found",
			})
		}
		log.Error().Err(err).Str("code", code).Msg("failed to get coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(coupon)
}

// RecordUsage handles POST /api/coupons/:code/usages requests.
func (h *CouponHandler) RecordUsage(c *fiber.Ctx) error {
	code := c.Params("code")
	var req model.RecordUsageRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	usage, err := h.service.RecordUsage(c.Context(), code, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		case errors.Is(err, service.ErrFounderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "founder not found"})
		case errors.Is(err, service.ErrCouponNotRedeemable):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "coupon is no longer valid"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("code", code).
			Int64("founder_id", req.FounderID).
			Msg("failed to record coupon usage")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("code", code).
		Int64("founder_id", usage.FounderID).
		Bool("redeemed", usage.Redeemed).
		Msg("coupon usage recorded")

	return c.Status(fiber.StatusCreated).JSON(usage)
}
