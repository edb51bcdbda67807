package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveSessions(t *testing.T) {
	n := 3
	m := New(func() int { return n })

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))

	n = 5
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ActiveSessions))

	assert.Equal(t, 0.0, testutil.ToFloat64(New(nil).ActiveSessions))
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.OrdersConfirmed.WithLabelValues("maintenance", "cash").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `goodfood_orders_confirmed_total{payment_method="cash",plan="maintenance"} 1`)
}
