package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repurpose_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repurpose_logins_total",
		Help: "Total number of successful logins.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_token_verifications_total",
			Help: "Total number of bearer token verification attempts by status.",
		},
		[]string{"status"},
	)

	passwordChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_password_checks_total",
			Help: "Total number of password strength checks by verdict.",
		},
		[]string{"strength"},
	)

	repurposesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_generations_total",
			Help: "Total number of repurpose requests by platform and status.",
		},
		[]string{"platform", "status"},
	)
)
