package kernel_test

import (
	"testing"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates point with valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(34.0522, -118.2437)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, 34.0522, p.Latitude(), 1e-9)
		assert.InDelta(t, -118.2437, p.Longitude(), 1e-9)
	})

	t.Run("accepts boundary coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90, 180)
		require.NoError(t, err)

		_, err = kernel.NewGeoPoint(-90, -180)
		require.NoError(t, err)
	})

	t.Run("rejects latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.01, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("rejects longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, _ := kernel.NewGeoPoint(1, 2)
	b, _ := kernel.NewGeoPoint(1, 2)
	c, _ := kernel.NewGeoPoint(1, 3)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestNewAddress(t *testing.T) {
	location, _ := kernel.NewGeoPoint(34.0522, -118.2437)

	t.Run("creates address with required fields", func(t *testing.T) {
		a, err := kernel.NewAddress("123 Main St", "Anytown", "12345", "+1-555-0100", location)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.Equal(t, "123 Main St", a.Street())
		assert.Equal(t, "Anytown", a.City())
		assert.Equal(t, "12345", a.ZipCode())
		assert.Equal(t, "+1-555-0100", a.ContactPhone())
		assert.True(t, location.IsEqual(a.Location()))
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		_, err := kernel.NewAddress("123 Main St", "Anytown", "", "", location)

		require.NoError(t, err)
	})

	t.Run("fails without street", func(t *testing.T) {
		_, err := kernel.NewAddress("", "Anytown", "", "", location)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "street")
	})

	t.Run("fails without city", func(t *testing.T) {
		_, err := kernel.NewAddress("123 Main St", "", "", "", location)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "city")
	})

	t.Run("fails with unconstructed location", func(t *testing.T) {
		var zero kernel.GeoPoint

		_, err := kernel.NewAddress("123 Main St", "Anytown", "", "", zero)

		require.Error(t, err)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var a kernel.Address

		require.Error(t, a.Validate())
	})
}
