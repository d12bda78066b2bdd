package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoPointCoordinateOrder(t *testing.T) {
	// GeoJSON stores [longitude, latitude]
	point := NewGeoPoint(10.5, -73.2)
	assert.Equal(t, "Point", point.Type)
	assert.Equal(t, -73.2, point.Coordinates[0])
	assert.Equal(t, 10.5, point.Coordinates[1])
	assert.Equal(t, 10.5, point.Latitude())
	assert.Equal(t, -73.2, point.Longitude())
}

func TestGeoPointJSONShape(t *testing.T) {
	data, err := json.Marshal(NewGeoPoint(10, 20))
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":10,"longitude":20}`, string(data))

	var point GeoPoint
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":1.5,"longitude":2.5}`), &point))
	assert.Equal(t, 1.5, point.Latitude())
	assert.Equal(t, 2.5, point.Longitude())
	assert.Equal(t, "Point", point.Type, "clients send lat/lng, storage gets GeoJSON")
}
