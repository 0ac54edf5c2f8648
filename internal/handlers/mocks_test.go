package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/stwalsh4118/propdesk/internal/repository"
)

// MockBundleGateway is a mock implementation of services.BundleGateway for testing
type MockBundleGateway struct {
	mock.Mock
}

func (m *MockBundleGateway) InsertBundle(ctx context.Context, bundle *models.Bundle) (uuid.UUID, error) {
	args := m.Called(ctx, bundle)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

// MockProjectService is a mock implementation of services.ProjectService for testing
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Bundle, error) {
	args := m.Called(ctx, id)
	bundle, _ := args.Get(0).(*models.Bundle)
	return bundle, args.Error(1)
}

func (m *MockProjectService) NearbyProjects(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ProjectWithDistance, error) {
	args := m.Called(ctx, lat, lng, radiusMeters)
	projects, _ := args.Get(0).([]repository.ProjectWithDistance)
	return projects, args.Error(1)
}
