package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrMalformedCell is returned when a row holds a value no spreadsheet cell
// can hold (a nested list or object from the JSON rows endpoint, for example).
var ErrMalformedCell = errors.New("malformed cell")

// Date serials at or below this value are treated as plain years ("2027")
// rather than spreadsheet dates. Serial 2200 is 1906-01-08.
const minDateSerial = 2200

// maxDateSerial is 9999-12-31, the last date a spreadsheet can represent.
const maxDateSerial = 2958465

// Defaults holds fallback values applied when optional cells are blank.
type Defaults struct {
	Lat float64
	Lng float64
}

// Parser builds project bundles from raw rows. It holds no mutable state and
// is safe for concurrent use.
type Parser struct {
	defaults Defaults
}

// NewParser creates a Parser that applies the given defaults.
func NewParser(defaults Defaults) *Parser {
	return &Parser{defaults: defaults}
}

// Parse decodes one row into a bundle. Missing optional fields fall back to
// their defaults; the only error is a structurally undecodable row.
func (p *Parser) Parse(row Row) (*models.Bundle, error) {
	for i, v := range row {
		if !isScalar(v) {
			return nil, fmt.Errorf("%w: column %d holds %T", ErrMalformedCell, i, v)
		}
	}

	return &models.Bundle{
		Project:            p.parseProject(row),
		Units:              ParseUnits(row),
		Analysis:           ParseAnalysis(row),
		Amenities:          ParseAmenities(row),
		Landmarks:          ParseLandmarks(row),
		LocationAdvantages: ParseLocationAdvantages(row),
		Competitors:        ParseCompetitors(row),
		CostExtras:         ParseCostExtras(row),
	}, nil
}

func (p *Parser) parseProject(row Row) models.Project {
	return models.Project{
		Name:             String(row, ColName, ""),
		Developer:        String(row, ColDeveloper, ""),
		ReraID:           String(row, ColReraID, ""),
		Status:           models.ParseProjectStatus(String(row, ColStatus, "")),
		Zone:             models.ParseZone(String(row, ColZone, "")),
		Region:           String(row, ColRegion, ""),
		PropertyType:     String(row, ColPropertyType, ""),
		TotalUnits:       Int(row, ColTotalUnits, 0),
		LandArea:         String(row, ColLandArea, ""),
		PossessionDate:   possessionDate(row),
		FloorLevels:      String(row, ColFloorLevels, ""),
		OpenSpacePct:     Float(row, ColOpenSpacePct, 0),
		ConstructionTech: String(row, ColConstructionTech, ""),
		BuilderGrade:     String(row, ColBuilderGrade, ""),
		ConstructionType: String(row, ColConstructionType, ""),
		Address:          String(row, ColAddress, ""),
		Lat:              Float(row, ColLat, p.defaults.Lat),
		Lng:              Float(row, ColLng, p.defaults.Lng),
		PriceMin:         Int(row, ColPriceMin, 0),
		PriceDisplay:     String(row, ColPriceDisplay, ""),
		PricePerSqft:     Int(row, ColPricePerSqft, 0),
		OnwardsPricing:   Bool(row, ColOnwardsPricing, false),
		Specifications:   specifications(row),
		BrochureURL:      String(row, ColBrochureURL, ""),
		MasterPlanURL:    String(row, ColMasterPlanURL, ""),
		CoverImageURL:    String(row, ColCoverImageURL, ""),
		LayoutVersion:    LayoutVersion,
	}
}

// specifications collects the non-blank secondary attributes. Integer fields
// that do not parse ("2 per tower") are kept as text.
func specifications(row Row) map[string]any {
	spec := make(map[string]any)
	for i, f := range SpecificationFields {
		col := ColSpecStart + i
		if !Present(row, col) {
			continue
		}
		if f.Kind == KindInt {
			if _, ok := number(row, col); ok {
				spec[f.Name] = Int(row, col, 0)
				continue
			}
		}
		spec[f.Name] = String(row, col, "")
	}
	return spec
}

// possessionDate normalises the possession cell. Sheets read with raw cell
// values return dates as serial numbers; those become YYYY-MM-DD.
func possessionDate(row Row) string {
	if t, ok := Get(row, ColPossessionDate, nil).(time.Time); ok {
		return t.Format(time.DateOnly)
	}

	if serial, ok := number(row, ColPossessionDate); ok && serial > minDateSerial && serial <= maxDateSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(time.DateOnly)
		}
	}

	return String(row, ColPossessionDate, "")
}
