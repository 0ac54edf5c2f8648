package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/stwalsh4118/propdesk/internal/repository"
)

// MockProjectRepository is a mock implementation of ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) CreateProject(ctx context.Context, p *models.Project) (uuid.UUID, error) {
	args := m.Called(ctx, p)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *MockProjectRepository) CreateUnits(ctx context.Context, units []models.Unit) error {
	return m.Called(ctx, units).Error(0)
}

func (m *MockProjectRepository) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockProjectRepository) CreateAmenities(ctx context.Context, amenities []models.Amenity) error {
	return m.Called(ctx, amenities).Error(0)
}

func (m *MockProjectRepository) CreateLandmarks(ctx context.Context, landmarks []models.Landmark) error {
	return m.Called(ctx, landmarks).Error(0)
}

func (m *MockProjectRepository) CreateLocationAdvantages(ctx context.Context, advantages []models.LocationAdvantage) error {
	return m.Called(ctx, advantages).Error(0)
}

func (m *MockProjectRepository) CreateCompetitors(ctx context.Context, competitors []models.Competitor) error {
	return m.Called(ctx, competitors).Error(0)
}

func (m *MockProjectRepository) CreateCostExtras(ctx context.Context, extras []models.CostExtra) error {
	return m.Called(ctx, extras).Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bundle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	bundle, ok := args.Get(0).(*models.Bundle)
	if !ok {
		return nil, args.Error(1)
	}
	return bundle, args.Error(1)
}

func (m *MockProjectRepository) FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ProjectWithDistance, error) {
	args := m.Called(ctx, lat, lng, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	projects, ok := args.Get(0).([]repository.ProjectWithDistance)
	if !ok {
		return nil, args.Error(1)
	}
	return projects, args.Error(1)
}

// MockBundleGateway is a mock implementation of BundleGateway for testing
type MockBundleGateway struct {
	mock.Mock
}

func (m *MockBundleGateway) InsertBundle(ctx context.Context, bundle *models.Bundle) (uuid.UUID, error) {
	args := m.Called(ctx, bundle)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
