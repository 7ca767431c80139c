package kernel_test

import (
	"math"
	"testing"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("should create location with valid coordinates", func(t *testing.T) {
		loc, err := kernel.NewLocation(12.9716, 77.5946)

		require.NoError(t, err)
		require.NoError(t, loc.Validate())
		assert.InDelta(t, 12.9716, loc.Lat(), 1e-9)
		assert.InDelta(t, 77.5946, loc.Lng(), 1e-9)
	})

	t.Run("should accept boundary values", func(t *testing.T) {
		_, err := kernel.NewLocation(kernel.MinLatitude, kernel.MaxLongitude)
		require.NoError(t, err)

		_, err = kernel.NewLocation(kernel.MaxLatitude, kernel.MinLongitude)
		require.NoError(t, err)
	})

	t.Run("should reject out of range coordinates", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lng float64
			param    string
		}{
			{"latitude too high", 90.5, 10, "lat"},
			{"latitude too low", -91, 10, "lat"},
			{"longitude too high", 10, 180.1, "lng"},
			{"longitude NaN", 10, math.NaN(), "lng"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewLocation(tc.lat, tc.lng)

				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Contains(t, err.Error(), tc.param)
			})
		}
	})

	t.Run("should report both violations", func(t *testing.T) {
		_, err := kernel.NewLocation(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lat")
		assert.Contains(t, err.Error(), "lng")
	})
}

func TestLocation_ZeroValue(t *testing.T) {
	var loc kernel.Location

	require.ErrorIs(t, loc.Validate(), errs.ErrValueIsRequired)

	_, err := loc.IsEqual(loc)
	require.Error(t, err)
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation(10, 10)
	b, _ := kernel.NewLocation(10, 10)
	c, _ := kernel.NewLocation(11, 11)

	equal, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, equal)
}

func TestLocation_DistanceKm(t *testing.T) {
	t.Run("should be zero for same point", func(t *testing.T) {
		a, _ := kernel.NewLocation(28.6139, 77.2090)

		d, err := a.DistanceKm(a)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, _ := kernel.NewLocation(28.6139, 77.2090)
		b, _ := kernel.NewLocation(19.0760, 72.8777)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
		assert.InDelta(t, 1150, ab, 15)
	})
}

func TestID(t *testing.T) {
	t.Run("should trim raw value", func(t *testing.T) {
		id, err := kernel.NewID("  42 ")

		require.NoError(t, err)
		assert.Equal(t, kernel.ID("42"), id)
		assert.Equal(t, "42", id.String())
	})

	t.Run("should reject blank value", func(t *testing.T) {
		_, err := kernel.NewID("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is detectable", func(t *testing.T) {
		var id kernel.ID

		assert.True(t, id.IsZero())
		require.Error(t, id.Validate())
	})
}
