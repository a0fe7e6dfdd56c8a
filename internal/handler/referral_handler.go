package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
)

// ReferralServiceInterface triggers referral rewards.
type ReferralServiceInterface interface {
	RewardReferrer(ctx context.Context, founderID int64) (*model.Founder, error)
}

// ReferralHandler handles founder referral reward requests.
type ReferralHandler struct {
	service ReferralServiceInterface
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(svc ReferralServiceInterface) *ReferralHandler {
	return &ReferralHandler{service: svc}
}

// RewardReferrer handles POST /api/founders/:id/referral-reward.
// Responds 202 once the notification is scheduled; delivery happens later.
func (h *ReferralHandler) RewardReferrer(c *fiber.Ctx) error {
	founderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || founderID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a positive integer"})
	}

	founder, err := h.service.RewardReferrer(c.Context(), founderID)
	if err != nil {
		if errors.Is(err, service.ErrFounderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "founder not found"})
		}
		log.Error().Err(err).Int64("founder_id", founderID).Msg("failed to schedule referral reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	event := log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Int64("founder_id", founder.ID)
	if founder.ReferrerID != nil {
		event = event.Int64("referrer_id", *founder.ReferrerID)
	}
	event.Msg("referral reward scheduled")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":      "scheduled",
		"founder_id":  founder.ID,
		"referrer_id": founder.ReferrerID,
	})
}
