package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuth(reg)

	m.SessionCheck("ok")
	m.SessionCheck("ok")
	m.SessionCheck("deactivated")
	m.Login("invalid_credentials")
	m.GateDecision(DecisionRedirectClear)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionChecks.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionChecks.WithLabelValues("deactivated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues(DecisionRedirectClear)))

	count, err := testutil.GatherAndCount(reg, "genix_admin_session_checks_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNopIsIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Login("ok")
		Nop().Login("ok")
	})
}
