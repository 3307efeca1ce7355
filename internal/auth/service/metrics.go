package service

import (
	"github.com/myflix/backend/internal/observability/metrics"
)

func incrementLoginAttempts() {
	metrics.LoginAttemptsTotal.Inc()
}

func incrementLoginFailed(reason string) {
	metrics.LoginFailuresTotal.WithLabelValues(reason).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementTokenValidations() {
	metrics.TokenValidationsTotal.Inc()
}

func incrementTokenValidationFailed(reason string) {
	metrics.TokenValidationsFailed.WithLabelValues(reason).Inc()
}
