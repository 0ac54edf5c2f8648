package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle stage of a development.
type ProjectStatus string

const (
	StatusPreLaunch         ProjectStatus = "pre-launch"
	StatusUnderConstruction ProjectStatus = "under-construction"
	StatusReady             ProjectStatus = "ready"
)

// Zone is the city quadrant a project is filed under.
type Zone string

const (
	ZoneNorth Zone = "north"
	ZoneSouth Zone = "south"
	ZoneEast  Zone = "east"
	ZoneWest  Zone = "west"
)

// ParseProjectStatus maps the spellings used in vendor sheets onto the
// canonical statuses. Unrecognised text is kept as entered.
func ParseProjectStatus(s string) ProjectStatus {
	key := slug(s)
	switch key {
	case "pre-launch", "prelaunch", "new-launch":
		return StatusPreLaunch
	case "under-construction", "uc", "ongoing":
		return StatusUnderConstruction
	case "ready", "ready-to-move", "rtm", "completed":
		return StatusReady
	}
	return ProjectStatus(strings.TrimSpace(s))
}

// ParseZone maps a zone cell onto the canonical zone names.
// Unrecognised text is kept as entered.
func ParseZone(s string) Zone {
	switch slug(s) {
	case "north", "n":
		return ZoneNorth
	case "south", "s":
		return ZoneSouth
	case "east", "e":
		return ZoneEast
	case "west", "w":
		return ZoneWest
	}
	return Zone(strings.TrimSpace(s))
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}

// Project represents one real-estate development.
// It is created once per imported spreadsheet row and never mutated by the import.
type Project struct {
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Specifications   map[string]any `json:"specifications"`
	Name             string         `json:"name" validate:"required"`
	Developer        string         `json:"developer" validate:"required"`
	ReraID           string         `json:"rera_id,omitempty"`
	Status           ProjectStatus  `json:"status,omitempty"`
	Zone             Zone           `json:"zone,omitempty"`
	Region           string         `json:"region" validate:"required"`
	PropertyType     string         `json:"property_type,omitempty"`
	LandArea         string         `json:"land_area,omitempty"`
	PossessionDate   string         `json:"possession_date,omitempty"`
	FloorLevels      string         `json:"floor_levels,omitempty"`
	ConstructionTech string         `json:"construction_tech,omitempty"`
	BuilderGrade     string         `json:"builder_grade,omitempty"`
	ConstructionType string         `json:"construction_type,omitempty"`
	Address          string         `json:"address,omitempty"`
	PriceDisplay     string         `json:"price_display" validate:"required"`
	BrochureURL      string         `json:"brochure_url,omitempty"`
	MasterPlanURL    string         `json:"master_plan_url,omitempty"`
	CoverImageURL    string         `json:"cover_image_url,omitempty"`
	Lat              float64        `json:"lat"`
	Lng              float64        `json:"lng"`
	OpenSpacePct     float64        `json:"open_space_pct,omitempty"`
	TotalUnits       int64          `json:"total_units,omitempty"`
	PriceMin         int64          `json:"price_min" validate:"gt=0"`
	PricePerSqft     int64          `json:"price_per_sqft,omitempty"`
	LayoutVersion    int            `json:"layout_version"`
	ID               uuid.UUID      `json:"id"`
	OnwardsPricing   bool           `json:"onwards_pricing"`
}

// Location returns the project's map position.
func (p *Project) Location() Point {
	return NewPoint(p.Lat, p.Lng)
}
