package odds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbability(t *testing.T) {
	t.Run("paces prizes against remaining days", func(t *testing.T) {
		// Dec 5: 20 eligible days left, 15 prizes in stock.
		assert.InDelta(t, 0.75, Probability(15, 20, false), 1e-9)
	})

	t.Run("dampens repeat winners by a flat factor", func(t *testing.T) {
		assert.InDelta(t, 0.075, Probability(15, 20, true), 1e-9)
	})

	t.Run("zero when no prizes remain", func(t *testing.T) {
		assert.Zero(t, Probability(0, 10, false))
		assert.Zero(t, Probability(-3, 10, false))
	})

	t.Run("zero when no days remain", func(t *testing.T) {
		assert.Zero(t, Probability(10, 0, false))
		assert.Zero(t, Probability(10, -1, false))
	})

	t.Run("values above one pass through unclamped", func(t *testing.T) {
		assert.InDelta(t, 3.0, Probability(6, 2, false), 1e-9)
	})
}

func TestProbabilityMonotonicity(t *testing.T) {
	// Non-increasing in remaining days for fixed prizes.
	for days := 1; days < 24; days++ {
		p1 := Probability(10, days, false)
		p2 := Probability(10, days+1, false)
		assert.GreaterOrEqual(t, p1, p2, "days=%d", days)
	}
	// Non-decreasing in remaining prizes for fixed days.
	for prizes := 1; prizes < 50; prizes++ {
		p1 := Probability(prizes, 12, false)
		p2 := Probability(prizes+1, 12, false)
		assert.LessOrEqual(t, p1, p2, "prizes=%d", prizes)
	}
}

func TestRemainingDays(t *testing.T) {
	assert.Equal(t, 20, RemainingDays(time.Date(2023, time.December, 5, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, RemainingDays(time.Date(2023, time.December, 24, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, RemainingDays(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.Zero(t, RemainingDays(time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)))
	assert.Zero(t, RemainingDays(time.Date(2023, time.November, 30, 0, 0, 0, 0, time.UTC)))
}
