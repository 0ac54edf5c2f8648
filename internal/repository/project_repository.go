package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stwalsh4118/propdesk/internal/database"
	"github.com/stwalsh4118/propdesk/internal/models"
)

// ProjectWithDistance is a project with its distance from a reference point.
type ProjectWithDistance struct {
	Project  models.Project
	Distance float64 // metres
}

// ProjectRepository defines data access for projects and their sub-records.
//
// The Create* methods for child collections stamp the generated ids back onto
// the passed records. Each collection is written in a single round trip.
type ProjectRepository interface {
	// CreateProject inserts the parent row and returns its generated id.
	CreateProject(ctx context.Context, p *models.Project) (uuid.UUID, error)

	CreateUnits(ctx context.Context, units []models.Unit) error
	CreateAnalysis(ctx context.Context, a *models.Analysis) error
	CreateAmenities(ctx context.Context, amenities []models.Amenity) error
	CreateLandmarks(ctx context.Context, landmarks []models.Landmark) error
	CreateLocationAdvantages(ctx context.Context, advantages []models.LocationAdvantage) error
	CreateCompetitors(ctx context.Context, competitors []models.Competitor) error
	CreateCostExtras(ctx context.Context, extras []models.CostExtra) error

	// DeleteProject removes a project; child rows go with it (ON DELETE CASCADE).
	// Deleting a missing project is not an error.
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// FindByID loads a project with all of its sub-records.
	// Returns nil, nil if the project does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bundle, error)

	// FindNearby returns projects within radiusMeters of the point, closest first.
	// Returns an empty slice if none are found.
	FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]ProjectWithDistance, error)
}

type projectRepository struct {
	db *database.Database
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *database.Database) ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

// nullableString stores blank optional text as NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateProject inserts the project. The location column is built from the
// GeoJSON form of the point; PostGIS wants (lng, lat) order, which Point handles.
func (r *projectRepository) CreateProject(ctx context.Context, p *models.Project) (uuid.UUID, error) {
	query := `
		INSERT INTO projects (
			name, developer, rera_id, status, zone, region, property_type,
			total_units, land_area, possession_date, floor_levels, open_space_pct,
			construction_tech, builder_grade, construction_type, address,
			lat, lng, location,
			price_min, price_display, price_per_sqft, onwards_pricing,
			specifications, brochure_url, master_plan_url, cover_image_url, layout_version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, ST_SetSRID(ST_GeomFromGeoJSON($19::text), 4326)::geography,
			$20, $21, $22, $23,
			$24, $25, $26, $27, $28
		)
		RETURNING id, created_at, updated_at`

	specifications := p.Specifications
	if specifications == nil {
		specifications = map[string]any{}
	}

	err := r.db.Pool.QueryRow(ctx, query,
		p.Name,
		p.Developer,
		nullableString(p.ReraID),
		nullableString(string(p.Status)),
		nullableString(string(p.Zone)),
		p.Region,
		nullableString(p.PropertyType),
		p.TotalUnits,
		nullableString(p.LandArea),
		nullableString(p.PossessionDate),
		nullableString(p.FloorLevels),
		p.OpenSpacePct,
		nullableString(p.ConstructionTech),
		nullableString(p.BuilderGrade),
		nullableString(p.ConstructionType),
		nullableString(p.Address),
		p.Lat,
		p.Lng,
		p.Location(),
		p.PriceMin,
		p.PriceDisplay,
		p.PricePerSqft,
		p.OnwardsPricing,
		specifications,
		nullableString(p.BrochureURL),
		nullableString(p.MasterPlanURL),
		nullableString(p.CoverImageURL),
		p.LayoutVersion,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert project %q: %w", p.Name, err)
	}

	return p.ID, nil
}

// sendBatch runs every queued insert and scans the returned id of each into ids.
func (r *projectRepository) sendBatch(ctx context.Context, table string, batch *pgx.Batch, ids []*uuid.UUID) error {
	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for i, id := range ids {
		if err := results.QueryRow().Scan(id); err != nil {
			return fmt.Errorf("failed to insert %s record %d: %w", table, i, err)
		}
	}
	return results.Close()
}

func (r *projectRepository) CreateUnits(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_units (
			project_id, position, type, sba_sqft, carpet_sqft, uds_sqft, base_price,
			wc_count, balcony_count, facing_available, plc_charges, flooring_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(units))
	for i := range units {
		u := &units[i]
		batch.Queue(query,
			u.ProjectID, u.Position, u.Type, u.SBASqft, u.CarpetSqft, u.UDSSqft, u.BasePrice,
			u.WCCount, u.BalconyCount, nullableString(u.FacingAvailable), u.PLCCharges,
			nullableString(u.FlooringType),
		)
		ids[i] = &u.ID
	}

	return r.sendBatch(ctx, "project_units", batch, ids)
}

func (r *projectRepository) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	query := `
		INSERT INTO project_analysis (
			project_id, rating, target_customer_profile, closing_pitch, usp,
			objection_handling, pros, cons
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	pros, cons := a.Pros, a.Cons
	if pros == nil {
		pros = []string{}
	}
	if cons == nil {
		cons = []string{}
	}

	err := r.db.Pool.QueryRow(ctx, query,
		a.ProjectID, a.Rating, a.TargetCustomerProfile, a.ClosingPitch,
		nullableString(a.USP), nullableString(a.ObjectionHandling), pros, cons,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert project_analysis record: %w", err)
	}
	return nil
}

func (r *projectRepository) CreateAmenities(ctx context.Context, amenities []models.Amenity) error {
	if len(amenities) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_amenities (project_id, position, name, category, size_specs)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(amenities))
	for i := range amenities {
		a := &amenities[i]
		batch.Queue(query, a.ProjectID, a.Position, a.Name, a.Category, nullableString(a.SizeSpecs))
		ids[i] = &a.ID
	}

	return r.sendBatch(ctx, "project_amenities", batch, ids)
}

func (r *projectRepository) CreateLandmarks(ctx context.Context, landmarks []models.Landmark) error {
	if len(landmarks) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_landmarks (project_id, position, name, category, distance_km, travel_time_mins)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(landmarks))
	for i := range landmarks {
		l := &landmarks[i]
		batch.Queue(query, l.ProjectID, l.Position, l.Name, nullableString(l.Category), l.DistanceKm, l.TravelTimeMins)
		ids[i] = &l.ID
	}

	return r.sendBatch(ctx, "project_landmarks", batch, ids)
}

func (r *projectRepository) CreateLocationAdvantages(ctx context.Context, advantages []models.LocationAdvantage) error {
	if len(advantages) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_location_advantages (
			project_id, category_number, category_name, details, distance_km, travel_time_mins
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(advantages))
	for i := range advantages {
		a := &advantages[i]
		batch.Queue(query, a.ProjectID, a.CategoryNumber, a.CategoryName, nullableString(a.Details), a.DistanceKm, a.TravelTimeMins)
		ids[i] = &a.ID
	}

	return r.sendBatch(ctx, "project_location_advantages", batch, ids)
}

func (r *projectRepository) CreateCompetitors(ctx context.Context, competitors []models.Competitor) error {
	if len(competitors) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_competitors (
			project_id, position, competitor_name, competitor_price_range, distance_km, similar_configs, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(competitors))
	for i := range competitors {
		c := &competitors[i]
		batch.Queue(query,
			c.ProjectID, c.Position, c.CompetitorName, nullableString(c.CompetitorPriceRange),
			c.DistanceKm, nullableString(c.SimilarConfigs), nullableString(c.Notes),
		)
		ids[i] = &c.ID
	}

	return r.sendBatch(ctx, "project_competitors", batch, ids)
}

func (r *projectRepository) CreateCostExtras(ctx context.Context, extras []models.CostExtra) error {
	if len(extras) == 0 {
		return nil
	}

	query := `
		INSERT INTO project_cost_extras (project_id, position, name, cost_type, amount, payment_milestone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	batch := &pgx.Batch{}
	ids := make([]*uuid.UUID, len(extras))
	for i := range extras {
		e := &extras[i]
		batch.Queue(query, e.ProjectID, e.Position, e.Name, e.CostType, e.Amount, nullableString(e.PaymentMilestone))
		ids[i] = &e.ID
	}

	return r.sendBatch(ctx, "project_cost_extras", batch, ids)
}

func (r *projectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return nil
}

// projectColumns is the select list scanned by scanProject.
const projectColumns = `
	id, name, developer, COALESCE(rera_id, ''), COALESCE(status, ''), COALESCE(zone, ''),
	region, COALESCE(property_type, ''), total_units, COALESCE(land_area, ''),
	COALESCE(possession_date, ''), COALESCE(floor_levels, ''), open_space_pct,
	COALESCE(construction_tech, ''), COALESCE(builder_grade, ''), COALESCE(construction_type, ''),
	COALESCE(address, ''), lat, lng, price_min, price_display, price_per_sqft, onwards_pricing,
	specifications, COALESCE(brochure_url, ''), COALESCE(master_plan_url, ''),
	COALESCE(cover_image_url, ''), layout_version, created_at, updated_at`

// scanProject reads projectColumns, followed by any extra destinations.
func scanProject(row pgx.Row, p *models.Project, extra ...any) error {
	dest := []any{
		&p.ID, &p.Name, &p.Developer, &p.ReraID, &p.Status, &p.Zone,
		&p.Region, &p.PropertyType, &p.TotalUnits, &p.LandArea,
		&p.PossessionDate, &p.FloorLevels, &p.OpenSpacePct,
		&p.ConstructionTech, &p.BuilderGrade, &p.ConstructionType,
		&p.Address, &p.Lat, &p.Lng, &p.PriceMin, &p.PriceDisplay, &p.PricePerSqft, &p.OnwardsPricing,
		&p.Specifications, &p.BrochureURL, &p.MasterPlanURL,
		&p.CoverImageURL, &p.LayoutVersion, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// FindByID loads the project row, then reads every child table in one batch.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bundle, error) {
	var bundle models.Bundle

	err := scanProject(r.db.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id), &bundle.Project)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query project %s: %w", id, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT id, project_id, position, type, sba_sqft, carpet_sqft, uds_sqft, base_price,
		       wc_count, balcony_count, COALESCE(facing_available, ''), plc_charges, COALESCE(flooring_type, '')
		FROM project_units WHERE project_id = $1 ORDER BY position`, id)
	batch.Queue(`
		SELECT id, project_id, rating, target_customer_profile, closing_pitch,
		       COALESCE(usp, ''), COALESCE(objection_handling, ''), pros, cons
		FROM project_analysis WHERE project_id = $1`, id)
	batch.Queue(`
		SELECT id, project_id, position, name, category, COALESCE(size_specs, '')
		FROM project_amenities WHERE project_id = $1 ORDER BY position`, id)
	batch.Queue(`
		SELECT id, project_id, position, name, COALESCE(category, ''), distance_km, travel_time_mins
		FROM project_landmarks WHERE project_id = $1 ORDER BY position`, id)
	batch.Queue(`
		SELECT id, project_id, category_number, category_name, COALESCE(details, ''), distance_km, travel_time_mins
		FROM project_location_advantages WHERE project_id = $1 ORDER BY category_number`, id)
	batch.Queue(`
		SELECT id, project_id, position, competitor_name, COALESCE(competitor_price_range, ''),
		       distance_km, COALESCE(similar_configs, ''), COALESCE(notes, '')
		FROM project_competitors WHERE project_id = $1 ORDER BY position`, id)
	batch.Queue(`
		SELECT id, project_id, position, name, cost_type, amount, COALESCE(payment_milestone, '')
		FROM project_cost_extras WHERE project_id = $1 ORDER BY position`, id)

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	if bundle.Units, err = collect(results, func(row pgx.CollectableRow) (u models.Unit, err error) {
		err = row.Scan(&u.ID, &u.ProjectID, &u.Position, &u.Type, &u.SBASqft, &u.CarpetSqft, &u.UDSSqft,
			&u.BasePrice, &u.WCCount, &u.BalconyCount, &u.FacingAvailable, &u.PLCCharges, &u.FlooringType)
		return u, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load units for project %s: %w", id, err)
	}

	analyses, err := collect(results, func(row pgx.CollectableRow) (a models.Analysis, err error) {
		err = row.Scan(&a.ID, &a.ProjectID, &a.Rating, &a.TargetCustomerProfile, &a.ClosingPitch,
			&a.USP, &a.ObjectionHandling, &a.Pros, &a.Cons)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis for project %s: %w", id, err)
	}
	bundle.Analysis = models.Analysis{Pros: []string{}, Cons: []string{}}
	if len(analyses) > 0 {
		bundle.Analysis = analyses[0]
	}

	if bundle.Amenities, err = collect(results, func(row pgx.CollectableRow) (a models.Amenity, err error) {
		err = row.Scan(&a.ID, &a.ProjectID, &a.Position, &a.Name, &a.Category, &a.SizeSpecs)
		return a, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load amenities for project %s: %w", id, err)
	}

	if bundle.Landmarks, err = collect(results, func(row pgx.CollectableRow) (l models.Landmark, err error) {
		err = row.Scan(&l.ID, &l.ProjectID, &l.Position, &l.Name, &l.Category, &l.DistanceKm, &l.TravelTimeMins)
		return l, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load landmarks for project %s: %w", id, err)
	}

	if bundle.LocationAdvantages, err = collect(results, func(row pgx.CollectableRow) (a models.LocationAdvantage, err error) {
		err = row.Scan(&a.ID, &a.ProjectID, &a.CategoryNumber, &a.CategoryName, &a.Details, &a.DistanceKm, &a.TravelTimeMins)
		return a, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load location advantages for project %s: %w", id, err)
	}

	if bundle.Competitors, err = collect(results, func(row pgx.CollectableRow) (c models.Competitor, err error) {
		err = row.Scan(&c.ID, &c.ProjectID, &c.Position, &c.CompetitorName, &c.CompetitorPriceRange,
			&c.DistanceKm, &c.SimilarConfigs, &c.Notes)
		return c, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load competitors for project %s: %w", id, err)
	}

	if bundle.CostExtras, err = collect(results, func(row pgx.CollectableRow) (e models.CostExtra, err error) {
		err = row.Scan(&e.ID, &e.ProjectID, &e.Position, &e.Name, &e.CostType, &e.Amount, &e.PaymentMilestone)
		return e, err
	}); err != nil {
		return nil, fmt.Errorf("failed to load cost extras for project %s: %w", id, err)
	}

	return &bundle, nil
}

// collect reads the next batch result into a non-nil slice.
func collect[T any](results pgx.BatchResults, fn pgx.RowToFunc[T]) ([]T, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Maximum number of projects returned from a nearby query.
const maxNearbyResults = 50

// FindNearby uses ST_DWithin on the geography column, so the radius is in
// metres and the GIST index on location applies.
//
// Note: PostGIS functions expect (longitude, latitude) order, not (lat, lng).
func (r *projectRepository) FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]ProjectWithDistance, error) {
	query := `
		SELECT ` + projectColumns + `,
			ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
		FROM projects
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance_meters
		LIMIT $4`

	rows, err := r.db.Pool.Query(ctx, query, lng, lat, radiusMeters, maxNearbyResults)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby projects (lat=%f, lng=%f, radius=%d): %w",
			lat, lng, radiusMeters, err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ProjectWithDistance, error) {
		var pd ProjectWithDistance
		err := scanProject(row, &pd.Project, &pd.Distance)
		return pd, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan nearby projects: %w", err)
	}

	if results == nil {
		results = []ProjectWithDistance{}
	}
	return results, nil
}
