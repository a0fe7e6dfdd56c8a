package mailer

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

const (
	// TopicReferralReward receives founder referral reward mail jobs.
	TopicReferralReward = "founder.mailer.referral_reward"

	MailerFounder        = "FounderMailer"
	ActionReferralReward = "referral_reward"

	SchemaVersion = 1
)

// Recipient is the addressable part of a startup or founder.
type Recipient struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is a mail job handed to the delivery workers.
// Referrer is null when the founder has no referrer.
type Message struct {
	SchemaVersion int        `json:"schema_version"`
	MessageID     string     `json:"message_id"`
	Mailer        string     `json:"mailer"`
	Action        string     `json:"action"`
	Referrer      *Recipient `json:"referrer"`
	Founder       *Recipient `json:"founder"`
	EnqueuedAt    time.Time  `json:"enqueued_at"`
}

// NewReferralRewardMessage builds the referral reward job for referrer and founder.
func NewReferralRewardMessage(referrer *model.Startup, founder *model.Founder, now time.Time) *Message {
	msg := &Message{
		SchemaVersion: SchemaVersion,
		MessageID:     uuid.New().String(),
		Mailer:        MailerFounder,
		Action:        ActionReferralReward,
		EnqueuedAt:    now.UTC(),
	}
	if referrer != nil {
		msg.Referrer = &Recipient{ID: referrer.ID, Name: referrer.Name, Email: referrer.Email}
	}
	if founder != nil {
		msg.Founder = &Recipient{ID: founder.ID, Name: founder.Name, Email: founder.Email}
	}
	return msg
}

// Key partitions jobs by founder so repeated rewards for one founder stay ordered.
func (m *Message) Key() []byte {
	if m.Founder == nil {
		return nil
	}
	return []byte(strconv.FormatInt(m.Founder.ID, 10))
}
