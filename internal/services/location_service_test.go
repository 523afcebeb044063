package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/models/response_models"
)

var (
	parisCoords  = response_models.Coordinates{Lat: 48.8566, Lng: 2.3522}
	londonCoords = response_models.Coordinates{Lat: 51.5074, Lng: -0.1278}
)

func TestFindCoordinatesExactAndPartial(t *testing.T) {
	locations := NewLocationService()

	exact := locations.FindCoordinates("paris")
	require.NotNil(t, exact)
	assert.InDelta(t, 48.8566, exact.Lat, 0.001)

	embedded := locations.FindCoordinates("Paris, France")
	require.NotNil(t, embedded)
	assert.InDelta(t, 2.3522, embedded.Lng, 0.001)

	assert.Nil(t, locations.FindCoordinates("Atlantis"))
	assert.Nil(t, locations.FindCoordinates("  "))
}

func TestDistanceHaversine(t *testing.T) {
	locations := NewLocationService()

	km := locations.Distance(parisCoords, londonCoords, "km")
	assert.InDelta(t, 344, km, 5)

	mi := locations.Distance(parisCoords, londonCoords, "mi")
	assert.InDelta(t, km*0.621371, mi, 0.01)

	assert.Zero(t, locations.Distance(parisCoords, parisCoords, "km"))
}

func TestEstimateTravelTime(t *testing.T) {
	locations := NewLocationService()

	near := response_models.Coordinates{Lat: parisCoords.Lat + 0.02, Lng: parisCoords.Lng}

	walking := locations.EstimateTravelTime(parisCoords, near, "walking")
	driving := locations.EstimateTravelTime(parisCoords, near, "driving")
	unknown := locations.EstimateTravelTime(parisCoords, near, "teleport")

	assert.Greater(t, walking, driving)
	assert.Equal(t, driving, unknown)
	assert.Zero(t, locations.EstimateTravelTime(parisCoords, parisCoords, "walking"))
}

func TestValidateCoordinates(t *testing.T) {
	locations := NewLocationService()

	assert.True(t, locations.ValidateCoordinates(parisCoords).Valid)
	assert.False(t, locations.ValidateCoordinates(response_models.Coordinates{Lat: 91}).Valid)
	assert.False(t, locations.ValidateCoordinates(response_models.Coordinates{Lng: -181}).Valid)
	assert.False(t, locations.ValidateCoordinates(response_models.Coordinates{}).Valid)
}

func TestFindClosestCity(t *testing.T) {
	locations := NewLocationService()

	nearParis := response_models.Coordinates{Lat: 48.80, Lng: 2.40}
	closest := locations.FindClosestCity(nearParis)
	require.NotNil(t, closest)
	assert.Equal(t, "paris", closest.Name)
	assert.Less(t, closest.DistanceKm, 20.0)
}
