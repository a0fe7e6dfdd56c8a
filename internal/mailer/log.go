package mailer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/referral-coupon-system/internal/metrics"
	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// LogMailer writes mail jobs to the log instead of a queue.
// Used when no Kafka brokers are configured.
type LogMailer struct{}

// ScheduleReferralReward logs the referral reward job.
func (LogMailer) ScheduleReferralReward(ctx context.Context, referrer *model.Startup, founder *model.Founder) {
	msg := NewReferralRewardMessage(referrer, founder, time.Now())

	event := log.Info().
		Str("message_id", msg.MessageID).
		Str("mailer", msg.Mailer).
		Str("action", msg.Action)
	if msg.Referrer != nil {
		event = event.Int64("referrer_id", msg.Referrer.ID)
	}
	if msg.Founder != nil {
		event = event.Int64("founder_id", msg.Founder.ID)
	}
	event.Msg("referral reward scheduled (log mailer)")

	metrics.RecordReferralReward("scheduled")
}
