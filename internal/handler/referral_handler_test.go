package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
)

type mockReferralService struct {
	rewardReferrerFn func(ctx context.Context, founderID int64) (*model.Founder, error)
}

func (m *mockReferralService) RewardReferrer(ctx context.Context, founderID int64) (*model.Founder, error) {
	if m.rewardReferrerFn != nil {
		return m.rewardReferrerFn(ctx, founderID)
	}
	return &model.Founder{ID: founderID}, nil
}

func setupReferralApp(svc *mockReferralService) *fiber.App {
	app := fiber.New()
	h := NewReferralHandler(svc)
	app.Post("/api/founders/:id/referral-reward", h.RewardReferrer)
	return app
}

func TestRewardReferrer_Accepted(t *testing.T) {
	referrerID := int64(5)
	var capturedID int64
	svc := &mockReferralService{
		rewardReferrerFn: func(ctx context.Context, founderID int64) (*model.Founder, error) {
			capturedID = founderID
			return &model.Founder{ID: founderID, ReferrerID: &referrerID}, nil
		},
	}
	app := setupReferralApp(svc)

	resp, result := doJSON(t, app, http.MethodPost, "/api/founders/8/referral-reward", "")

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, int64(8), capturedID)
	assert.Equal(t, "scheduled", result["status"])
	assert.Equal(t, float64(8), result["founder_id"])
	assert.Equal(t, float64(5), result["referrer_id"])
}

func TestRewardReferrer_WithoutReferrer(t *testing.T) {
	app := setupReferralApp(&mockReferralService{})

	resp, result := doJSON(t, app, http.MethodPost, "/api/founders/9/referral-reward", "")

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Nil(t, result["referrer_id"])
}

func TestRewardReferrer_InvalidID(t *testing.T) {
	called := false
	svc := &mockReferralService{
		rewardReferrerFn: func(ctx context.Context, founderID int64) (*model.Founder, error) {
			called = true
			return nil, nil
		},
	}
	app := setupReferralApp(svc)

	for _, id := range []string{"abc", "0", "-3"} {
		resp, result := doJSON(t, app, http.MethodPost, "/api/founders/"+id+"/referral-reward", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "id %q", id)
		assert.Equal(t, "invalid request: id must be a positive integer", result["error"])
	}
	assert.False(t, called)
}

func TestRewardReferrer_FounderNotFound(t *testing.T) {
	svc := &mockReferralService{
		rewardReferrerFn: func(ctx context.Context, founderID int64) (*model.Founder, error) {
			return nil, service.ErrFounderNotFound
		},
	}
	app := setupReferralApp(svc)

	resp, result := doJSON(t, app, http.MethodPost, "/api/founders/404/referral-reward", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "founder not found", result["error"])
}

func TestRewardReferrer_InternalError(t *testing.T) {
	svc := &mockReferralService{
		rewardReferrerFn: func(ctx context.Context, founderID int64) (*model.Founder, error) {
			return nil, errors.New("get founder: connection refused")
		},
	}
	app := setupReferralApp(svc)

	resp, result := doJSON(t, app, http.MethodPost, "/api/founders/1/referral-reward", "")

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", result["error"])
}
