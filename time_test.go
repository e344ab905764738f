package auth_test

import (
	"testing"
	"time"

	auth "github.com/campuskit/lms-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	t.Run("recent time is within the window", func(t *testing.T) {
		within, err := auth.IsWithinThresholdPeriod(time.Now().Add(-time.Hour), "24h")
		require.NoError(t, err)
		assert.True(t, within)
	})

	t.Run("stale time is outside the window", func(t *testing.T) {
		within, err := auth.IsWithinThresholdPeriod(time.Now().Add(-25*time.Hour), "24h")
		require.NoError(t, err)
		assert.False(t, within)
	})

	t.Run("invalid pattern is an error", func(t *testing.T) {
		_, err := auth.IsWithinThresholdPeriod(time.Now(), "one day")
		assert.Error(t, err)
	})
}

func TestIsOutsideThresholdPeriod(t *testing.T) {
	outside, err := auth.IsOutsideThresholdPeriod(time.Now().Add(-25*time.Hour), "24h")
	require.NoError(t, err)
	assert.True(t, outside)

	outside, err = auth.IsOutsideThresholdPeriod(time.Now().Add(-time.Minute), "24h")
	require.NoError(t, err)
	assert.False(t, outside)
}
