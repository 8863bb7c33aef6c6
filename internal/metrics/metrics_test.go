package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET /api/bookings", "200"))
	IncHTTP("GET /api/bookings", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET /api/bookings", "200")))

	before = testutil.ToFloat64(bookingTransitions.WithLabelValues("accept", "invalid_state"))
	IncTransition("accept", "invalid_state")
	IncTransition("accept", "invalid_state")
	assert.Equal(t, before+2, testutil.ToFloat64(bookingTransitions.WithLabelValues("accept", "invalid_state")))
}
