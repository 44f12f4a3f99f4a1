package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestRecordCSRF(t *testing.T) {
	before := testutil.ToFloat64(CSRFValidationsTotal.WithLabelValues("mismatch"))
	RecordCSRF("mismatch")
	RecordCSRF("mismatch")
	assert.Equal(t, before+2, testutil.ToFloat64(CSRFValidationsTotal.WithLabelValues("mismatch")))
}

func TestRecordRateLimit(t *testing.T) {
	before := testutil.ToFloat64(RateLimitDecisionsTotal.WithLabelValues("lru", "denied"))
	RecordRateLimit("lru", "denied", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RateLimitDecisionsTotal.WithLabelValues("lru", "denied")))
}
