package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSyncRecords(t *testing.T) {
	before := testutil.ToFloat64(SyncRecords.WithLabelValues("lodging", "created"))
	SyncRecords.WithLabelValues("lodging", "created").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(SyncRecords.WithLabelValues("lodging", "created")))
}

func TestCircuitBreakerState(t *testing.T) {
	CircuitBreakerState.WithLabelValues("test").Set(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test")))
}
