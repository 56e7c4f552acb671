package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageWindowStart(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	t.Run("lifetime limit has no window", func(t *testing.T) {
		c := &Coupon{LimitRefreshDays: 0}
		assert.Nil(t, c.UsageWindowStart(asOf))

		c.LimitRefreshDays = -1
		assert.Nil(t, c.UsageWindowStart(asOf))
	})

	t.Run("rolling window starts the configured days back", func(t *testing.T) {
		c := &Coupon{LimitRefreshDays: 30}

		start := c.UsageWindowStart(asOf)

		require.NotNil(t, start)
		assert.Equal(t, time.Date(2026, 7, 28, 12, 0, 0, 0, time.UTC), *start)
	})

	t.Run("a redemption ages out once the window moves past it", func(t *testing.T) {
		c := &Coupon{LimitRefreshDays: 7}
		usedAt := asOf.AddDate(0, 0, -8)

		start := c.UsageWindowStart(asOf)

		require.NotNil(t, start)
		assert.True(t, usedAt.Before(*start), "an 8-day-old use sits outside a 7-day window")

		// A day earlier the same redemption was still inside the window.
		earlier := c.UsageWindowStart(asOf.AddDate(0, 0, -2))
		require.NotNil(t, earlier)
		assert.False(t, usedAt.Before(*earlier))
	})
}
