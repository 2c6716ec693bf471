// Package metrics defines the Prometheus collectors for the auth API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Call Register once at startup, before the HTTP server starts.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskflow/auth-service/internal/core/domain"
)

const namespace = "auth"

// Result label values.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultDenied  = "denied"
	ResultError   = "error"
)

// RegistrationsTotal counts registration attempts by result.
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by result.
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token exchanges by result.
var TokenRefreshTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)

// ProfileUpdatesTotal counts profile updates by result.
var ProfileUpdatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_updates_total",
		Help:      "Total number of profile updates, by result.",
	},
	[]string{"result"},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RegistrationsTotal,
		LoginsTotal,
		TokenRefreshTotal,
		ProfileUpdatesTotal,
	}
}

// Register adds every collector to reg. Collectors already present are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case domain.IsAuthError(err):
		return ResultDenied
	case domain.IsValidationError(err):
		return ResultInvalid
	default:
		return ResultError
	}
}
