package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// Mailer schedules founder notifications for later delivery.
// Scheduling is fire-and-forget: delivery, retries and failures belong to the mailer.
type Mailer interface {
	ScheduleReferralReward(ctx context.Context, referrer *model.Startup, founder *model.Founder)
}

// FounderRepositoryInterface defines the interface for founder data access.
type FounderRepositoryInterface interface {
	GetWithReferrer(ctx context.Context, id int64) (*model.Founder, error)
}

// ReferralRewardService notifies the startup that referred a founder.
type ReferralRewardService struct {
	founder  *model.Founder
	referrer *model.Startup
	mailer   Mailer
}

// NewReferralRewardService resolves the referrer of founder.
func NewReferralRewardService(founder *model.Founder, mailer Mailer) *ReferralRewardService {
	return &ReferralRewardService{
		founder:  founder,
		referrer: founder.Referrer,
		mailer:   mailer,
	}
}

// Execute schedules the reward notification addressed to the referrer.
// A founder without a referrer is passed through with a nil referrer.
func (s *ReferralRewardService) Execute(ctx context.Context) {
	if s.referrer == nil {
		log.Warn().Int64("founder_id", s.founder.ID).Msg("scheduling referral reward without a referrer")
	}
	s.mailer.ScheduleReferralReward(ctx, s.referrer, s.founder)
}

// ReferralService loads founders and triggers their referral rewards.
type ReferralService struct {
	founderRepo FounderRepositoryInterface
	mailer      Mailer
}

// NewReferralService creates a new ReferralService.
func NewReferralService(founderRepo FounderRepositoryInterface, mailer Mailer) *ReferralService {
	return &ReferralService{founderRepo: founderRepo, mailer: mailer}
}

// RewardReferrer schedules the referral reward for the founder with the given id.
// Returns ErrFounderNotFound if the founder doesn't exist.
func (s *ReferralService) RewardReferrer(ctx context.Context, founderID int64) (*model.Founder, error) {
	founder, err := s.founderRepo.GetWithReferrer(ctx, founderID)
	if err != nil {
		return nil, fmt.Errorf("get founder: %w", err)
	}
	if founder == nil {
		return nil, ErrFounderNotFound
	}

	NewReferralRewardService(founder, s.mailer).Execute(ctx)
	return founder, nil
}
