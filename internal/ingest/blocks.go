package ingest

import (
	"github.com/stwalsh4118/propdesk/internal/models"
)

// record reads the fields of one block slot, applying each field's declared default.
type record struct {
	row   Row
	block *Block
	base  int
}

func (r record) present(field int) bool {
	return Present(r.row, r.base+field)
}

func (r record) str(field int) string {
	def, _ := r.block.Fields[field].Default.(string)
	return String(r.row, r.base+field, def)
}

func (r record) int(field int) int64 {
	def, _ := r.block.Fields[field].Default.(int64)
	return Int(r.row, r.base+field, def)
}

func (r record) float(field int) float64 {
	def, _ := r.block.Fields[field].Default.(float64)
	return Float(r.row, r.base+field, def)
}

// parseBlock decodes every slot of b whose primary field is present.
// Blank slots are skipped, not treated as the end of the block, so a sheet
// filled out of order still yields all of its records.
func parseBlock[T any](row Row, b *Block, decode func(r record, slot int) T) []T {
	out := make([]T, 0)
	for i := 0; i < b.Count; i++ {
		r := record{row: row, block: b, base: b.Slot(i)}
		if !r.present(0) {
			continue
		}
		out = append(out, decode(r, i))
	}
	return out
}

// ParseUnits decodes the unit configuration block.
func ParseUnits(row Row) []models.Unit {
	return parseBlock(row, &UnitsBlock, func(r record, slot int) models.Unit {
		return models.Unit{
			Type:            r.str(unitType),
			SBASqft:         r.int(unitSBASqft),
			CarpetSqft:      r.int(unitCarpetSqft),
			UDSSqft:         r.int(unitUDSSqft),
			BasePrice:       r.int(unitBasePrice),
			WCCount:         r.int(unitWCCount),
			BalconyCount:    r.int(unitBalconyCount),
			FacingAvailable: r.str(unitFacingAvailable),
			PLCCharges:      r.int(unitPLCCharges),
			FlooringType:    r.str(unitFlooringType),
			Position:        slot,
		}
	})
}

// ParseAnalysis decodes the single analysis record with its pros and cons lists.
// The lists keep slot order and skip blank slots; they are never nil.
func ParseAnalysis(row Row) models.Analysis {
	r := record{row: row, block: &AnalysisBlock, base: AnalysisBlock.Slot(0)}

	return models.Analysis{
		Rating:                r.float(analysisRating),
		TargetCustomerProfile: r.str(analysisTargetProfile),
		ClosingPitch:          r.str(analysisClosingPitch),
		USP:                   r.str(analysisUSP),
		ObjectionHandling:     r.str(analysisObjectionHandling),
		Pros:                  stringList(row, r.base+analysisProsStart, analysisProsCount),
		Cons:                  stringList(row, r.base+analysisConsStart, analysisConsCount),
	}
}

func stringList(row Row, start, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if s := String(row, start+i, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseAmenities decodes the amenities block.
func ParseAmenities(row Row) []models.Amenity {
	return parseBlock(row, &AmenitiesBlock, func(r record, slot int) models.Amenity {
		return models.Amenity{
			Name:      r.str(amenityName),
			Category:  r.str(amenityCategory),
			SizeSpecs: r.str(amenitySizeSpecs),
			Position:  slot,
		}
	})
}

// ParseLandmarks decodes the landmarks block.
func ParseLandmarks(row Row) []models.Landmark {
	return parseBlock(row, &LandmarksBlock, func(r record, slot int) models.Landmark {
		return models.Landmark{
			Name:           r.str(landmarkName),
			Category:       r.str(landmarkCategory),
			DistanceKm:     r.float(landmarkDistanceKm),
			TravelTimeMins: r.int(landmarkTravelTime),
			Position:       slot,
		}
	})
}

// ParseLocationAdvantages decodes the location advantages block. The category
// number is the 1-based slot, so it stays stable when earlier slots are blank.
func ParseLocationAdvantages(row Row) []models.LocationAdvantage {
	return parseBlock(row, &LocationAdvantagesBlock, func(r record, slot int) models.LocationAdvantage {
		return models.LocationAdvantage{
			CategoryName:   r.str(advantageCategoryName),
			Details:        r.str(advantageDetails),
			DistanceKm:     r.float(advantageDistanceKm),
			TravelTimeMins: r.int(advantageTravelTime),
			CategoryNumber: slot + 1,
		}
	})
}

// ParseCompetitors decodes the competitors block.
func ParseCompetitors(row Row) []models.Competitor {
	return parseBlock(row, &CompetitorsBlock, func(r record, slot int) models.Competitor {
		return models.Competitor{
			CompetitorName:       r.str(competitorName),
			CompetitorPriceRange: r.str(competitorPriceRange),
			DistanceKm:           r.float(competitorDistanceKm),
			SimilarConfigs:       r.str(competitorSimilarConfigs),
			Notes:                r.str(competitorNotes),
			Position:             slot,
		}
	})
}

// ParseCostExtras decodes the cost extras block.
func ParseCostExtras(row Row) []models.CostExtra {
	return parseBlock(row, &CostExtrasBlock, func(r record, slot int) models.CostExtra {
		return models.CostExtra{
			Name:             r.str(costName),
			CostType:         r.str(costType),
			Amount:           r.float(costAmount),
			PaymentMilestone: r.str(costPaymentMilestone),
			Position:         slot,
		}
	})
}
