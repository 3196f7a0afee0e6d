package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() { Inc("unknown") })
}

func TestInc(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(GetCounter(METRIC_WALLET_CONNECTED))
	Inc(METRIC_WALLET_CONNECTED)
	assert.Equal(t, before+1, testutil.ToFloat64(GetCounter(METRIC_WALLET_CONNECTED)))
}
