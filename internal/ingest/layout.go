package ingest

// LayoutVersion identifies the column layout below. Bump it whenever a
// column moves; stored projects record the version they were imported with.
const LayoutVersion = 1

// LayoutWidth is the number of columns the layout addresses (0..396).
const LayoutWidth = 397

// Project scalar columns.
const (
	ColName             = 0
	ColDeveloper        = 1
	ColReraID           = 2
	ColStatus           = 3
	ColZone             = 4
	ColRegion           = 5
	ColPropertyType     = 6
	ColTotalUnits       = 7
	ColLandArea         = 8
	ColPossessionDate   = 9
	ColFloorLevels      = 10
	ColOpenSpacePct     = 11
	ColConstructionTech = 12
	ColBuilderGrade     = 13
	ColConstructionType = 14
	ColAddress          = 15
	ColLat              = 16
	ColLng              = 17
	ColPriceMin         = 18
	ColPriceDisplay     = 19
	ColPricePerSqft     = 20
	ColOnwardsPricing   = 21
	ColSpecStart        = 22
	ColBrochureURL      = 36
	ColMasterPlanURL    = 37
	ColCoverImageURL    = 38
)

// FieldKind is the coercion applied to a cell.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	// KindRaw cells pass through the accessor unchanged and are stored as text.
	KindRaw
)

// Field describes one column of a record. Its position in Block.Fields is the
// column offset relative to the record's base column.
type Field struct {
	Name    string
	Kind    FieldKind
	Default any
}

// Block is a repeated-record region of the row: Count records of Stride
// columns each, starting at Offset. Fields[0] is the primary field; a slot
// whose primary field is blank holds no record.
type Block struct {
	Name   string
	Fields []Field
	Offset int
	Stride int
	Count  int
}

// Slot returns the base column of record i.
func (b Block) Slot(i int) int {
	return b.Offset + i*b.Stride
}

// End returns the first column after the block.
func (b Block) End() int {
	return b.Offset + b.Stride*b.Count
}

// Unit field offsets.
const (
	unitType = iota
	unitSBASqft
	unitCarpetSqft
	unitUDSSqft
	unitBasePrice
	unitWCCount
	unitBalconyCount
	unitFacingAvailable
	unitPLCCharges
	unitFlooringType
)

// Analysis field offsets. Pros and cons follow the scalar fields.
const (
	analysisRating = iota
	analysisTargetProfile
	analysisClosingPitch
	analysisUSP
	analysisObjectionHandling
	analysisProsStart
	analysisProsCount  = 10
	analysisConsStart  = analysisProsStart + analysisProsCount
	analysisConsCount  = 5
	analysisScalarSize = analysisProsStart
)

const (
	amenityName = iota
	amenityCategory
	amenitySizeSpecs
)

const (
	landmarkName = iota
	landmarkCategory
	landmarkDistanceKm
	landmarkTravelTime
)

const (
	advantageCategoryName = iota
	advantageDetails
	advantageDistanceKm
	advantageTravelTime
)

const (
	competitorName = iota
	competitorPriceRange
	competitorDistanceKm
	competitorSimilarConfigs
	competitorNotes
)

const (
	costName = iota
	costType
	costAmount
	costPaymentMilestone
)

var (
	UnitsBlock = Block{
		Name:   "units",
		Offset: 39,
		Stride: 10,
		Count:  6,
		Fields: []Field{
			{Name: "type", Kind: KindString, Default: ""},
			{Name: "sba_sqft", Kind: KindInt, Default: int64(0)},
			{Name: "carpet_sqft", Kind: KindInt, Default: int64(0)},
			{Name: "uds_sqft", Kind: KindInt, Default: int64(0)},
			{Name: "base_price", Kind: KindInt, Default: int64(0)},
			{Name: "wc_count", Kind: KindInt, Default: int64(0)},
			{Name: "balcony_count", Kind: KindInt, Default: int64(0)},
			{Name: "facing_available", Kind: KindRaw, Default: ""},
			{Name: "plc_charges", Kind: KindInt, Default: int64(0)},
			{Name: "flooring_type", Kind: KindString, Default: ""},
		},
	}

	AnalysisBlock = Block{
		Name:   "analysis",
		Offset: 99,
		Stride: 20,
		Count:  1,
		Fields: []Field{
			{Name: "rating", Kind: KindFloat, Default: float64(0)},
			{Name: "target_customer_profile", Kind: KindString, Default: ""},
			{Name: "closing_pitch", Kind: KindString, Default: ""},
			{Name: "usp", Kind: KindString, Default: ""},
			{Name: "objection_handling", Kind: KindString, Default: ""},
		},
	}

	AmenitiesBlock = Block{
		Name:   "amenities",
		Offset: 119,
		Stride: 3,
		Count:  35,
		Fields: []Field{
			{Name: "name", Kind: KindString, Default: ""},
			{Name: "category", Kind: KindString, Default: "General"},
			{Name: "size_specs", Kind: KindString, Default: ""},
		},
	}

	LandmarksBlock = Block{
		Name:   "landmarks",
		Offset: 224,
		Stride: 4,
		Count:  20,
		Fields: []Field{
			{Name: "name", Kind: KindString, Default: ""},
			{Name: "category", Kind: KindString, Default: ""},
			{Name: "distance_km", Kind: KindFloat, Default: float64(0)},
			{Name: "travel_time_mins", Kind: KindInt, Default: int64(0)},
		},
	}

	LocationAdvantagesBlock = Block{
		Name:   "location_advantages",
		Offset: 304,
		Stride: 4,
		Count:  7,
		Fields: []Field{
			{Name: "category_name", Kind: KindString, Default: ""},
			{Name: "details", Kind: KindString, Default: ""},
			{Name: "distance_km", Kind: KindFloat, Default: float64(0)},
			{Name: "travel_time_mins", Kind: KindInt, Default: int64(0)},
		},
	}

	CompetitorsBlock = Block{
		Name:   "competitors",
		Offset: 332,
		Stride: 5,
		Count:  5,
		Fields: []Field{
			{Name: "competitor_name", Kind: KindString, Default: ""},
			{Name: "competitor_price_range", Kind: KindString, Default: ""},
			{Name: "distance_km", Kind: KindFloat, Default: float64(0)},
			{Name: "similar_configs", Kind: KindString, Default: ""},
			{Name: "notes", Kind: KindString, Default: ""},
		},
	}

	CostExtrasBlock = Block{
		Name:   "cost_extras",
		Offset: 357,
		Stride: 4,
		Count:  10,
		Fields: []Field{
			{Name: "name", Kind: KindString, Default: ""},
			{Name: "cost_type", Kind: KindString, Default: "Fixed"},
			{Name: "amount", Kind: KindFloat, Default: float64(0)},
			{Name: "payment_milestone", Kind: KindString, Default: ""},
		},
	}
)

// Blocks lists every repeated-record block in column order.
var Blocks = []Block{
	UnitsBlock,
	AnalysisBlock,
	AmenitiesBlock,
	LandmarksBlock,
	LocationAdvantagesBlock,
	CompetitorsBlock,
	CostExtrasBlock,
}

// SpecificationFields are the keys of Project.Specifications, read from
// ColSpecStart onward, one column each.
var SpecificationFields = []Field{
	{Name: "clubhouse_size", Kind: KindString},
	{Name: "elevator_count", Kind: KindInt},
	{Name: "parking_type", Kind: KindString},
	{Name: "power_backup", Kind: KindString},
	{Name: "water_source", Kind: KindString},
	{Name: "security", Kind: KindString},
	{Name: "payment_plan", Kind: KindString},
	{Name: "maintenance_charges", Kind: KindString},
	{Name: "corpus_fund", Kind: KindString},
	{Name: "car_parking_charges", Kind: KindString},
	{Name: "registration_charges", Kind: KindString},
	{Name: "gst", Kind: KindString},
	{Name: "bank_approvals", Kind: KindString},
	{Name: "total_towers", Kind: KindInt},
}
