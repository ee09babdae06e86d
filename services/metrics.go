package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inactivityCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutorcrm_inactivity_candidates_total",
		Help: "Customers evaluated by the inactivity notifier.",
	})
	inactivitySkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorcrm_inactivity_skipped_total",
		Help: "Candidates skipped by the inactivity rule, by reason.",
	}, []string{"reason"})
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorcrm_notifications_total",
		Help: "Notifications delivered, by channel and status.",
	}, []string{"channel", "status"})
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutorcrm_job_duration_seconds",
		Help:    "Scheduled job run time.",
		Buckets: []float64{0.1, 1, 10, 60, 300, 900, 1800, 3600},
	}, []string{"job"})
)
