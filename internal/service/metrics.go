package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_events_total",
			Help: "Domain events processed by the dispatcher",
		},
		[]string{"action"},
	)
	RewardsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_unlocked_total",
			Help: "Achievements and badges unlocked",
		},
		[]string{"kind"},
	)
	XPGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xp_granted_total",
			Help: "Total XP granted across all users",
		},
	)
	CommissionsEarned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_commission_cents_total",
			Help: "Referral commission accrued, in euro cents",
		},
	)
	PaymentsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_resolved_total",
			Help: "Checkout sessions resolved to a terminal status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(EventsProcessed)
	prometheus.MustRegister(RewardsUnlocked)
	prometheus.MustRegister(XPGranted)
	prometheus.MustRegister(CommissionsEarned)
	prometheus.MustRegister(PaymentsResolved)
}
