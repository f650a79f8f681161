// Package metrics exposes Prometheus counters for admin authentication.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "genix"

// Gate decisions
const (
	DecisionPass              = "pass"
	DecisionRedirectLogin     = "redirect_login"
	DecisionRedirectClear     = "redirect_login_clear"
	DecisionRedirectDashboard = "redirect_dashboard"
)

// Auth holds the counters shared by the route gate and session endpoints.
type Auth struct {
	sessionChecks *prometheus.CounterVec
	logins        *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
}

// NewAuth registers the counters on reg. Passing a fresh registry keeps
// tests isolated from prometheus.DefaultRegisterer.
func NewAuth(reg prometheus.Registerer) *Auth {
	factory := promauto.With(reg)

	return &Auth{
		sessionChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "session_checks_total",
			Help:      "Authoritative admin session checks by outcome",
		}, []string{"outcome"}),

		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "logins_total",
			Help:      "Admin login attempts by outcome",
		}, []string{"outcome"}),

		gateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "gate_decisions_total",
			Help:      "Route gate decisions for admin paths",
		}, []string{"decision"}),
	}
}

// Nop returns counters registered on a private registry.
func Nop() *Auth {
	return NewAuth(prometheus.NewRegistry())
}

func (a *Auth) SessionCheck(outcome string) {
	a.sessionChecks.WithLabelValues(outcome).Inc()
}

func (a *Auth) Login(outcome string) {
	a.logins.WithLabelValues(outcome).Inc()
}

func (a *Auth) GateDecision(decision string) {
	a.gateDecisions.WithLabelValues(decision).Inc()
}
