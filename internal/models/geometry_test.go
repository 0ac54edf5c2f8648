package models

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPointImplementsValuer verifies Point can be passed as a query argument
func TestPointImplementsValuer(t *testing.T) {
	var _ driver.Valuer = Point{}
}

func TestPointValue(t *testing.T) {
	p := NewPoint(12.9716, 77.5946)

	val, err := p.Value()
	require.NoError(t, err)

	str, ok := val.(string)
	require.True(t, ok, "expected string value, got %T", val)

	var geom map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(str), &geom))
	assert.Equal(t, "Point", geom["type"])

	coords, ok := geom["coordinates"].([]interface{})
	require.True(t, ok)
	// GeoJSON order is [lng, lat]
	assert.InDelta(t, 77.5946, coords[0], 1e-9)
	assert.InDelta(t, 12.9716, coords[1], 1e-9)
}

func TestPointMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewPoint(12.5, 77.25))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[77.25,12.5]}`, string(data))
}

func TestParseProjectStatus(t *testing.T) {
	assert.Equal(t, StatusPreLaunch, ParseProjectStatus("Pre Launch"))
	assert.Equal(t, StatusUnderConstruction, ParseProjectStatus(" under_construction "))
	assert.Equal(t, StatusReady, ParseProjectStatus("Ready to Move"))
	assert.Equal(t, ProjectStatus("Sold Out"), ParseProjectStatus("Sold Out"))
	assert.Equal(t, ProjectStatus(""), ParseProjectStatus(""))
}

func TestParseZone(t *testing.T) {
	assert.Equal(t, ZoneNorth, ParseZone("North"))
	assert.Equal(t, ZoneWest, ParseZone("w"))
	assert.Equal(t, Zone("Central"), ParseZone("Central"))
}
