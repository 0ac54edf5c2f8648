package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/propdesk/internal/config"
	"github.com/stwalsh4118/propdesk/internal/database"
	"github.com/stwalsh4118/propdesk/internal/logger"
	"github.com/stwalsh4118/propdesk/internal/models"
)

func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "host.docker.internal"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "propdesk_test"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  2,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupTestRepository connects to a migrated test database.
func setupTestRepository(t *testing.T) ProjectRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Skipf("Skipping integration test, database unavailable: %v", err)
	}
	t.Cleanup(db.Close)

	require.NoError(t, database.RunMigrations(db, logger.Nop()))
	return NewProjectRepository(db)
}

func testProject(name string, lat, lng float64) *models.Project {
	return &models.Project{
		Name:           name,
		Developer:      "Test Devs",
		Region:         "Test Region",
		Status:         models.StatusUnderConstruction,
		PriceDisplay:   "1 Cr",
		PriceMin:       10000000,
		Lat:            lat,
		Lng:            lng,
		LayoutVersion:  1,
		Specifications: map[string]any{"elevator_count": 4, "parking_type": "Covered"},
	}
}

func TestProjectRepository_CreateAndFindByID(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	project := testProject("Test Towers "+uuid.NewString(), 12.97, 77.59)
	id, err := repo.CreateProject(ctx, project)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	t.Cleanup(func() { _ = repo.DeleteProject(context.Background(), id) })

	bundle := models.Bundle{
		Project:  *project,
		Units:    []models.Unit{{Type: "2BHK", SBASqft: 1000, Position: 0}, {Type: "3BHK", SBASqft: 1450, Position: 3}},
		Analysis: models.Analysis{TargetCustomerProfile: "X", ClosingPitch: "Y", Pros: []string{"Metro"}, Cons: []string{}},
		Amenities: []models.Amenity{
			{Name: "Pool", Category: "General", Position: 0},
		},
		Landmarks:          []models.Landmark{{Name: "Tech Park", DistanceKm: 2.5, TravelTimeMins: 10, Position: 1}},
		LocationAdvantages: []models.LocationAdvantage{{CategoryName: "Connectivity", CategoryNumber: 2}},
		Competitors:        []models.Competitor{{CompetitorName: "Rival Heights", Position: 0}},
		CostExtras:         []models.CostExtra{{Name: "Club", CostType: "Fixed", Amount: 200000, Position: 0}},
	}
	bundle.AssignProjectID(id)

	require.NoError(t, repo.CreateUnits(ctx, bundle.Units))
	require.NoError(t, repo.CreateAnalysis(ctx, &bundle.Analysis))
	require.NoError(t, repo.CreateAmenities(ctx, bundle.Amenities))
	require.NoError(t, repo.CreateLandmarks(ctx, bundle.Landmarks))
	require.NoError(t, repo.CreateLocationAdvantages(ctx, bundle.LocationAdvantages))
	require.NoError(t, repo.CreateCompetitors(ctx, bundle.Competitors))
	require.NoError(t, repo.CreateCostExtras(ctx, bundle.CostExtras))
	assert.NotEqual(t, uuid.Nil, bundle.Units[0].ID)
	assert.NotEqual(t, uuid.Nil, bundle.Analysis.ID)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, project.Name, got.Project.Name)
	assert.Equal(t, models.StatusUnderConstruction, got.Project.Status)
	assert.Equal(t, 12.97, got.Project.Lat)
	assert.Equal(t, "Covered", got.Project.Specifications["parking_type"])
	require.Len(t, got.Units, 2)
	assert.Equal(t, "3BHK", got.Units[1].Type)
	assert.Equal(t, 3, got.Units[1].Position)
	assert.Equal(t, []string{"Metro"}, got.Analysis.Pros)
	assert.Len(t, got.Amenities, 1)
	assert.Len(t, got.Landmarks, 1)
	assert.Equal(t, 2, got.LocationAdvantages[0].CategoryNumber)
	assert.Len(t, got.Competitors, 1)
	assert.Equal(t, 200000.0, got.CostExtras[0].Amount)
}

func TestProjectRepository_EmptyCollectionsAreNoOps(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	assert.NoError(t, repo.CreateUnits(ctx, nil))
	assert.NoError(t, repo.CreateAmenities(ctx, []models.Amenity{}))
	assert.NoError(t, repo.CreateCostExtras(ctx, nil))
}

func TestProjectRepository_ChildWithoutParentFails(t *testing.T) {
	repo := setupTestRepository(t)

	err := repo.CreateUnits(context.Background(), []models.Unit{{ProjectID: uuid.New(), Type: "2BHK"}})

	assert.Error(t, err)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	project := testProject("Cascade "+uuid.NewString(), 12.97, 77.59)
	id, err := repo.CreateProject(ctx, project)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUnits(ctx, []models.Unit{{ProjectID: id, Type: "2BHK"}}))

	require.NoError(t, repo.DeleteProject(ctx, id))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
	// Deleting again is not an error.
	assert.NoError(t, repo.DeleteProject(ctx, id))
}

func TestProjectRepository_FindByIDMissing(t *testing.T) {
	repo := setupTestRepository(t)

	got, err := repo.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectRepository_FindNearby(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	near := testProject("Near "+uuid.NewString(), 12.9716, 77.5946)
	far := testProject("Far "+uuid.NewString(), 13.35, 77.10)
	for _, p := range []*models.Project{near, far} {
		id, err := repo.CreateProject(ctx, p)
		require.NoError(t, err)
		t.Cleanup(func() { _ = repo.DeleteProject(context.Background(), id) })
	}

	results, err := repo.FindNearby(ctx, 12.9720, 77.5950, 1000)
	require.NoError(t, err)

	var found bool
	for i, r := range results {
		assert.NotEqual(t, far.ID, r.Project.ID)
		assert.LessOrEqual(t, r.Distance, 1000.0)
		if i > 0 {
			assert.GreaterOrEqual(t, r.Distance, results[i-1].Distance)
		}
		if r.Project.ID == near.ID {
			found = true
		}
	}
	assert.True(t, found, "expected the nearby project in results")
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	require.NotNil(t, nullableString("x"))
	assert.Equal(t, "x", *nullableString("x"))
}
