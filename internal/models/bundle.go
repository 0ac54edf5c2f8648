package models

import (
	"github.com/google/uuid"
)

// Unit is one configuration/typology offered in a project (2BHK, 3BHK, ...).
type Unit struct {
	Type            string    `json:"type"`
	FacingAvailable string    `json:"facing_available,omitempty"`
	FlooringType    string    `json:"flooring_type,omitempty"`
	SBASqft         int64     `json:"sba_sqft"`
	CarpetSqft      int64     `json:"carpet_sqft"`
	UDSSqft         int64     `json:"uds_sqft"`
	BasePrice       int64     `json:"base_price"`
	WCCount         int64     `json:"wc_count"`
	BalconyCount    int64     `json:"balcony_count"`
	PLCCharges      int64     `json:"plc_charges"`
	Position        int       `json:"position"`
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
}

// Analysis is the sales narrative for a project. At most one per project.
type Analysis struct {
	Pros                  []string  `json:"pros"`
	Cons                  []string  `json:"cons"`
	TargetCustomerProfile string    `json:"target_customer_profile" validate:"required"`
	ClosingPitch          string    `json:"closing_pitch" validate:"required"`
	USP                   string    `json:"usp,omitempty"`
	ObjectionHandling     string    `json:"objection_handling,omitempty"`
	Rating                float64   `json:"rating"`
	ID                    uuid.UUID `json:"id"`
	ProjectID             uuid.UUID `json:"project_id"`
}

// IsEmpty reports whether the row carried no analysis data at all.
func (a *Analysis) IsEmpty() bool {
	return a.TargetCustomerProfile == "" &&
		a.ClosingPitch == "" &&
		a.USP == "" &&
		a.ObjectionHandling == "" &&
		a.Rating == 0 &&
		len(a.Pros) == 0 &&
		len(a.Cons) == 0
}

// Amenity is a facility offered by the project (pool, gym, ...).
type Amenity struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SizeSpecs string    `json:"size_specs,omitempty"`
	Position  int       `json:"position"`
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
}

// Landmark is a nearby point of interest.
type Landmark struct {
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	DistanceKm     float64   `json:"distance_km"`
	TravelTimeMins int64     `json:"travel_time_mins"`
	Position       int       `json:"position"`
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
}

// LocationAdvantage is a connectivity highlight. CategoryNumber is the
// 1-based slot the advantage was read from.
type LocationAdvantage struct {
	CategoryName   string    `json:"category_name"`
	Details        string    `json:"details"`
	DistanceKm     float64   `json:"distance_km"`
	TravelTimeMins int64     `json:"travel_time_mins"`
	CategoryNumber int       `json:"category_number"`
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
}

// Competitor is a competing project the sales team positions against.
type Competitor struct {
	CompetitorName       string    `json:"competitor_name"`
	CompetitorPriceRange string    `json:"competitor_price_range"`
	SimilarConfigs       string    `json:"similar_configs,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	DistanceKm           float64   `json:"distance_km"`
	Position             int       `json:"position"`
	ID                   uuid.UUID `json:"id"`
	ProjectID            uuid.UUID `json:"project_id"`
}

// CostExtra is a charge on top of the base price.
type CostExtra struct {
	Name             string    `json:"name"`
	CostType         string    `json:"cost_type"`
	PaymentMilestone string    `json:"payment_milestone,omitempty"`
	Amount           float64   `json:"amount"`
	Position         int       `json:"position"`
	ID               uuid.UUID `json:"id"`
	ProjectID        uuid.UUID `json:"project_id"`
}

// Bundle is one row's project together with all of its sub-records.
type Bundle struct {
	Project            Project             `json:"project"`
	Analysis           Analysis            `json:"analysis"`
	Units              []Unit              `json:"units"`
	Amenities          []Amenity           `json:"amenities"`
	Landmarks          []Landmark          `json:"landmarks"`
	LocationAdvantages []LocationAdvantage `json:"location_advantages"`
	Competitors        []Competitor        `json:"competitors"`
	CostExtras         []CostExtra         `json:"cost_extras"`
}

// AssignProjectID stamps the persisted project id onto the project and every child.
func (b *Bundle) AssignProjectID(id uuid.UUID) {
	b.Project.ID = id
	b.Analysis.ProjectID = id
	for i := range b.Units {
		b.Units[i].ProjectID = id
	}
	for i := range b.Amenities {
		b.Amenities[i].ProjectID = id
	}
	for i := range b.Landmarks {
		b.Landmarks[i].ProjectID = id
	}
	for i := range b.LocationAdvantages {
		b.LocationAdvantages[i].ProjectID = id
	}
	for i := range b.Competitors {
		b.Competitors[i].ProjectID = id
	}
	for i := range b.CostExtras {
		b.CostExtras[i].ProjectID = id
	}
}

// ChildCount is the number of sub-records the bundle will insert.
func (b *Bundle) ChildCount() int {
	n := len(b.Units) + len(b.Amenities) + len(b.Landmarks) +
		len(b.LocationAdvantages) + len(b.Competitors) + len(b.CostExtras)
	if !b.Analysis.IsEmpty() {
		n++
	}
	return n
}
