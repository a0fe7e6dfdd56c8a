package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/referral-coupon-system/internal/filter"
	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
)

// FilterServiceInterface runs named admin filters.
type FilterServiceInterface interface {
	FilterIDs(ctx context.Context, name, value string) ([]int64, error)
}

// AdminHandler serves the admin index query endpoints.
type AdminHandler struct {
	service FilterServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc FilterServiceInterface) *AdminHandler {
	return &AdminHandler{service: svc}
}

// FilterCouponIDs handles GET /api/admin/coupons/ids?filter=validity&value=Valid.
// The ids field is null when no coupon matched.
func (h *AdminHandler) FilterCouponIDs(c *fiber.Ctx) error {
	name := c.Query("filter")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: filter is required"})
	}
	value := c.Query("value")

	ids, err := h.service.FilterIDs(c.Context(), name, value)
	if err != nil {
		if errors.Is(err, service.ErrUnknownFilter) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown filter: " + name + " (available: " + strings.Join(filter.Names(), ", ") + ")",
			})
		}
		log.Error().Err(err).Str("filter", name).Str("value", value).Msg("failed to filter coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.FilterResponse{Filter: name, Value: value, IDs: ids})
}
