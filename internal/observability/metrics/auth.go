package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	LoginFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_failures_total",
			Help: "Total number of failed logins by internal reason",
		},
		[]string{"reason"},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	TokenValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_validations_total",
			Help: "Total number of bearer token validations",
		},
	)

	TokenValidationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_validations_failed_total",
			Help: "Total number of failed bearer token validations by internal reason",
		},
		[]string{"reason"},
	)
)
