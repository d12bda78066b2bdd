package models

import (
	"encoding/json"
)

// GeoPoint is persisted as a GeoJSON Point so the 2dsphere index can answer
// $near queries, but serialized to clients as {latitude, longitude}.
type GeoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from latitude/longitude.
func NewGeoPoint(latitude, longitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{longitude, latitude}}
}

func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }
func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(latLng{Latitude: p.Latitude(), Longitude: p.Longitude()})
}

func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var ll latLng
	if err := json.Unmarshal(data, &ll); err != nil {
		return err
	}
	*p = NewGeoPoint(ll.Latitude, ll.Longitude)
	return nil
}
