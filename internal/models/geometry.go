package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Point represents a PostGIS Point geometry in SRID 4326 (WGS84).
// GeoJSON coordinate order is [lng, lat].
type Point struct {
	Lng  float64
	Lat  float64
	SRID int
}

// NewPoint builds a WGS84 point from a latitude/longitude pair.
func NewPoint(lat, lng float64) Point {
	return Point{Lng: lng, Lat: lat, SRID: 4326}
}

type geoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Value implements driver.Valuer. The GeoJSON string is meant for
// ST_GeomFromGeoJSON in raw SQL.
func (p Point) Value() (driver.Value, error) {
	geoJSON, err := json.Marshal(geoJSONPoint{
		Type:        "Point",
		Coordinates: [2]float64{p.Lng, p.Lat},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal point to GeoJSON: %w", err)
	}

	return string(geoJSON), nil
}

// MarshalJSON renders the point as a GeoJSON geometry for map clients.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{
		Type:        "Point",
		Coordinates: [2]float64{p.Lng, p.Lat},
	})
}
