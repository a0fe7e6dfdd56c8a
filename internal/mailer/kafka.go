package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/referral-coupon-system/internal/metrics"
	"github.com/fairyhunter13/referral-coupon-system/internal/model"
)

// Producer is the subset of *kgo.Client used to enqueue mail jobs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaMailer enqueues mail jobs onto a Kafka topic.
// Delivery, retries and failures are owned by the consumers of that topic.
type KafkaMailer struct {
	producer Producer
	topic    string
	now      func() time.Time
}

// NewKafkaMailer creates a KafkaMailer producing to topic.
func NewKafkaMailer(producer Producer, topic string) *KafkaMailer {
	if topic == "" {
		topic = TopicReferralReward
	}
	return &KafkaMailer{producer: producer, topic: topic, now: time.Now}
}

// ScheduleReferralReward enqueues the referral reward mail without waiting for the broker.
func (m *KafkaMailer) ScheduleReferralReward(ctx context.Context, referrer *model.Startup, founder *model.Founder) {
	msg := NewReferralRewardMessage(referrer, founder, m.now())

	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.RecordReferralReward("failed")
		log.Error().Err(err).Str("message_id", msg.MessageID).Msg("failed to encode referral reward")
		return
	}

	record := &kgo.Record{
		Topic: m.topic,
		Key:   msg.Key(),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "mailer", Value: []byte(msg.Mailer)},
			{Key: "action", Value: []byte(msg.Action)},
			{Key: "message_id", Value: []byte(msg.MessageID)},
		},
	}

	// Detach from the request context: the job must outlive the HTTP request.
	m.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			metrics.RecordReferralReward("failed")
			log.Error().Err(err).Str("topic", r.Topic).Str("message_id", msg.MessageID).Msg("failed to enqueue referral reward")
			return
		}
		metrics.RecordReferralReward("delivered")
		log.Debug().
			Str("topic", r.Topic).
			Int32("partition", r.Partition).
			Int64("offset", r.Offset).
			Str("message_id", msg.MessageID).
			Msg("referral reward enqueued")
	})
	metrics.RecordReferralReward("scheduled")
}

// NewClient creates a franz-go client for the given brokers.
func NewClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RecordRetries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(client)

	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if err := createTopicsError(resp); err != nil {
		return err
	}

	log.Info().Str("topic", topic).Msg("mailer topic ensured")
	return nil
}

// createTopicsError returns the first per-topic failure, ignoring topics that already exist.
func createTopicsError(resp kadm.CreateTopicResponses) error {
	for _, detail := range resp.Sorted() {
		if detail.Err != nil && !errors.Is(detail.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", detail.Topic, detail.Err)
		}
	}
	return nil
}
