package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearConversion(t *testing.T) {
	assert.InDelta(t, 25.4, InchToMM(1), 1e-9)
	assert.InDelta(t, 1.0, MMToInch(25.4), 1e-9)
	assert.InDelta(t, 3.175, InchToMM(0.125), 1e-9)
}

func TestRateToPerSecond(t *testing.T) {
	t.Run("mm/sec stays for metric tools", func(t *testing.T) {
		assert.InDelta(t, 20.0, RateToPerSecond(20, RateMMPerSec, true), 1e-9)
	})

	t.Run("mm/sec becomes in/sec for imperial tools", func(t *testing.T) {
		assert.InDelta(t, 1.0, RateToPerSecond(25.4, RateMMPerSec, false), 1e-9)
	})

	t.Run("in/min becomes in/sec for imperial tools", func(t *testing.T) {
		assert.InDelta(t, 1.0, RateToPerSecond(60, RateInPerMin, false), 1e-9)
	})

	t.Run("in/min becomes mm/sec for metric tools", func(t *testing.T) {
		assert.InDelta(t, 25.4, RateToPerSecond(60, RateInPerMin, true), 1e-9)
	})

	t.Run("unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, 42.0, RateToPerSecond(42, RateUnit(2), true))
		assert.Equal(t, 42.0, RateToPerSecond(42, RateUnit(2), false))
	})
}

func TestPerMinuteToPerSecond(t *testing.T) {
	assert.InDelta(t, 0.8333, PerMinuteToPerSecond(50), 1e-4)
}
