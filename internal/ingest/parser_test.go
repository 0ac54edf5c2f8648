package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/propdesk/internal/models"
)

var testDefaults = Defaults{Lat: 12.9716, Lng: 77.5946}

// testTowersRow is a minimal row that passes validation.
func testTowersRow() Row {
	row := newRow()
	row[ColName] = "Test Towers"
	row[ColDeveloper] = "Test Devs"
	row[ColRegion] = "Test Region"
	row[ColPriceDisplay] = "1 Cr"
	row[ColPriceMin] = float64(10000000)
	row[ColLat] = 12.97
	row[ColLng] = 77.59
	row[AnalysisBlock.Slot(0)+analysisTargetProfile] = "X"
	row[AnalysisBlock.Slot(0)+analysisClosingPitch] = "Y"
	row[UnitsBlock.Slot(0)+unitType] = "2BHK"
	row[UnitsBlock.Slot(0)+unitSBASqft] = float64(1000)
	return row
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser(testDefaults)

	bundle, err := parser.Parse(testTowersRow())

	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "Test Towers", bundle.Project.Name)
	assert.Equal(t, "Test Devs", bundle.Project.Developer)
	assert.Equal(t, "Test Region", bundle.Project.Region)
	assert.Equal(t, "1 Cr", bundle.Project.PriceDisplay)
	assert.Equal(t, int64(10000000), bundle.Project.PriceMin)
	assert.Equal(t, 12.97, bundle.Project.Lat)
	assert.Equal(t, 77.59, bundle.Project.Lng)
	assert.Equal(t, LayoutVersion, bundle.Project.LayoutVersion)
	assert.False(t, bundle.Project.OnwardsPricing)

	require.Len(t, bundle.Units, 1)
	assert.Equal(t, "2BHK", bundle.Units[0].Type)
	assert.Equal(t, int64(1000), bundle.Units[0].SBASqft)

	assert.Equal(t, "X", bundle.Analysis.TargetCustomerProfile)
	assert.Equal(t, "Y", bundle.Analysis.ClosingPitch)
	assert.Empty(t, bundle.Amenities)
	assert.Empty(t, bundle.Landmarks)
	assert.Empty(t, bundle.LocationAdvantages)
	assert.Empty(t, bundle.Competitors)
	assert.Empty(t, bundle.CostExtras)
	assert.Empty(t, bundle.Project.Specifications)
}

func TestParser_ParseIsIdempotent(t *testing.T) {
	parser := NewParser(testDefaults)
	row := testTowersRow()
	row[AmenitiesBlock.Slot(2)] = "Pool"
	row[ColSpecStart+1] = "4"

	first, err := parser.Parse(row)
	require.NoError(t, err)
	second, err := parser.Parse(row)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParser_ParseFillsDefaults(t *testing.T) {
	parser := NewParser(testDefaults)

	bundle, err := parser.Parse(Row{"Only A Name"})

	require.NoError(t, err)
	assert.Equal(t, "Only A Name", bundle.Project.Name)
	assert.Equal(t, "", bundle.Project.Developer)
	assert.Equal(t, testDefaults.Lat, bundle.Project.Lat)
	assert.Equal(t, testDefaults.Lng, bundle.Project.Lng)
	assert.Equal(t, int64(0), bundle.Project.PriceMin)
	assert.NotNil(t, bundle.Project.Specifications)
	assert.NotNil(t, bundle.Units)
	assert.NotNil(t, bundle.Analysis.Pros)
}

func TestParser_ParseEmptyRow(t *testing.T) {
	parser := NewParser(testDefaults)

	bundle, err := parser.Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, "", bundle.Project.Name)
	assert.True(t, bundle.Analysis.IsEmpty())
	assert.Equal(t, 0, bundle.ChildCount())
}

func TestParser_ParseMalformedCell(t *testing.T) {
	parser := NewParser(testDefaults)

	tests := []struct {
		name string
		cell any
	}{
		{"nested list", []any{"a", "b"}},
		{"nested object", map[string]any{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testTowersRow()
			row[ColAddress] = tt.cell

			bundle, err := parser.Parse(row)

			assert.Nil(t, bundle)
			assert.ErrorIs(t, err, ErrMalformedCell)
			assert.Contains(t, err.Error(), "column 15")
		})
	}
}

func TestParser_ParseEnumsAndFlags(t *testing.T) {
	parser := NewParser(testDefaults)
	row := testTowersRow()
	row[ColStatus] = "Under Construction"
	row[ColZone] = "north"
	row[ColOnwardsPricing] = "Yes"
	row[ColTotalUnits] = "1,200"
	row[ColOpenSpacePct] = "72.5"

	bundle, err := parser.Parse(row)

	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderConstruction, bundle.Project.Status)
	assert.Equal(t, models.ZoneNorth, bundle.Project.Zone)
	assert.True(t, bundle.Project.OnwardsPricing)
	assert.Equal(t, int64(1200), bundle.Project.TotalUnits)
	assert.Equal(t, 72.5, bundle.Project.OpenSpacePct)
}

func TestParser_Specifications(t *testing.T) {
	parser := NewParser(testDefaults)
	row := testTowersRow()
	row[ColSpecStart] = "5000 sqft"      // clubhouse_size
	row[ColSpecStart+1] = "4"            // elevator_count
	row[ColSpecStart+2] = "Covered"      // parking_type
	row[ColSpecStart+12] = "SBI, HDFC"   // bank_approvals
	row[ColSpecStart+13] = "2 per phase" // total_towers

	bundle, err := parser.Parse(row)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"clubhouse_size": "5000 sqft",
		"elevator_count": int64(4),
		"parking_type":   "Covered",
		"bank_approvals": "SBI, HDFC",
		"total_towers":   "2 per phase",
	}, bundle.Project.Specifications)
}

func TestParser_PossessionDate(t *testing.T) {
	parser := NewParser(testDefaults)

	tests := []struct {
		name string
		cell any
		want string
	}{
		{"free text", "Dec 2027", "Dec 2027"},
		{"plain year", "2027", "2027"},
		{"numeric year", float64(2027), "2027"},
		{"date serial", float64(45658), "2025-01-01"},
		{"date serial text", "45658", "2025-01-01"},
		{"time value", time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), "2026-06-30"},
		{"blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testTowersRow()
			row[ColPossessionDate] = tt.cell

			bundle, err := parser.Parse(row)

			require.NoError(t, err)
			assert.Equal(t, tt.want, bundle.Project.PossessionDate)
		})
	}
}

func TestParser_URLs(t *testing.T) {
	parser := NewParser(testDefaults)
	row := testTowersRow()
	row[ColBrochureURL] = "https://example.com/brochure.pdf"
	row[ColMasterPlanURL] = " https://example.com/plan.pdf "
	row[ColCoverImageURL] = "https://example.com/cover.jpg"

	bundle, err := parser.Parse(row)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/brochure.pdf", bundle.Project.BrochureURL)
	assert.Equal(t, "https://example.com/plan.pdf", bundle.Project.MasterPlanURL)
	assert.Equal(t, "https://example.com/cover.jpg", bundle.Project.CoverImageURL)
}
