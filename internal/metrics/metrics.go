package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilterEvaluations counts admin filter runs and how many coupons matched
	FilterEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_filter_evaluations_total",
			Help: "Number of admin filter evaluations over coupons",
		},
		[]string{"filter", "matched"}, // matched: "some" or "none"
	)

	// CouponUsages counts recorded coupon usages by outcome
	CouponUsages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_usages_total",
			Help: "Number of coupon usage attempts",
		},
		[]string{"outcome"}, // redeemed, unredeemed, rejected
	)

	// ReferralRewards counts reward notifications handed to the delivery queue
	ReferralRewards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_reward_notifications_total",
			Help: "Number of referral reward notifications by delivery status",
		},
		[]string{"status"}, // scheduled, delivered, failed
	)
)

// RecordFilterEvaluation records one filter run.
func RecordFilterEvaluation(filter string, matched int) {
	label := "some"
	if matched == 0 {
		label = "none"
	}
	FilterEvaluations.WithLabelValues(filter, label).Inc()
}

// RecordCouponUsage records a usage attempt outcome.
func RecordCouponUsage(outcome string) {
	CouponUsages.WithLabelValues(outcome).Inc()
}

// RecordReferralReward records a reward notification status change.
func RecordReferralReward(status string) {
	ReferralRewards.WithLabelValues(status).Inc()
}
