package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stwalsh4118/propdesk/internal/logger"
	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/stwalsh4118/propdesk/internal/repository"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Radius validation constants
const (
	MinRadiusMeters     = 1
	MaxRadiusMeters     = 50000
	DefaultRadiusMeters = 5000
)

// Service-level errors
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidRadius      = errors.New("radius must be between 1 and 50000 meters")
)

// ProjectService defines read operations over imported projects.
type ProjectService interface {
	// GetProject returns a project with all of its sub-records.
	// Returns ErrProjectNotFound if no project has the id.
	GetProject(ctx context.Context, id uuid.UUID) (*models.Bundle, error)

	// NearbyProjects returns projects within radiusMeters of the point, closest first.
	// Returns ErrInvalidCoordinates or ErrInvalidRadius for bad input and an
	// empty slice when nothing is in range.
	NearbyProjects(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ProjectWithDistance, error)
}

type projectService struct {
	repo repository.ProjectRepository
	log  *logger.Logger
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(repo repository.ProjectRepository, log *logger.Logger) ProjectService {
	return &projectService{
		repo: repo,
		log:  log,
	}
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Bundle, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load project", err, map[string]interface{}{
			"project_id": id.String(),
		})
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	// Repository returns nil, nil when the project does not exist
	if bundle == nil {
		s.log.Debug("Project not found", map[string]interface{}{
			"project_id": id.String(),
		})
		return nil, ErrProjectNotFound
	}

	return bundle, nil
}

func (s *projectService) NearbyProjects(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ProjectWithDistance, error) {
	fields := map[string]interface{}{
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
	}

	if lat < MinLatitude || lat > MaxLatitude {
		s.log.Warn("Invalid latitude provided", fields)
		return nil, fmt.Errorf("%w: latitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLatitude, MaxLatitude, lat)
	}
	if lng < MinLongitude || lng > MaxLongitude {
		s.log.Warn("Invalid longitude provided", fields)
		return nil, fmt.Errorf("%w: longitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLongitude, MaxLongitude, lng)
	}
	if radiusMeters < MinRadiusMeters || radiusMeters > MaxRadiusMeters {
		s.log.Warn("Invalid radius provided", fields)
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radiusMeters)
	}

	projects, err := s.repo.FindNearby(ctx, lat, lng, radiusMeters)
	if err != nil {
		s.log.Error("Failed to query nearby projects", err, fields)
		return nil, fmt.Errorf("failed to query nearby projects: %w", err)
	}

	s.log.Debug("Nearby projects found", map[string]interface{}{
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
		"count":  len(projects),
	})

	return projects, nil
}
