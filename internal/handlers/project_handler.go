package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/stwalsh4118/propdesk/internal/errors"
	"github.com/stwalsh4118/propdesk/internal/middleware"
	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/stwalsh4118/propdesk/internal/repository"
	"github.com/stwalsh4118/propdesk/internal/services"
)

// ProjectHandler serves reads over imported projects.
type ProjectHandler struct {
	service services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// NearbyRequest represents the query parameters for the nearby endpoint.
// Pointers let a zero coordinate through the required check.
type NearbyRequest struct {
	Lat    *float64 `form:"lat" binding:"required,latitude"`
	Lng    *float64 `form:"lng" binding:"required,longitude"`
	Radius int      `form:"radius"`
}

// NearbyResponse represents the response for the nearby endpoint.
type NearbyResponse struct {
	Projects []ProjectSummary `json:"projects"`
	Count    int              `json:"count"`
}

// ProjectSummary is the map-pin view of a project.
type ProjectSummary struct {
	Location       models.Point         `json:"location"`
	Name           string               `json:"name"`
	Developer      string               `json:"developer"`
	Region         string               `json:"region"`
	Status         models.ProjectStatus `json:"status,omitempty"`
	PriceDisplay   string               `json:"price_display"`
	CoverImageURL  string               `json:"cover_image_url,omitempty"`
	PriceMin       int64                `json:"price_min"`
	DistanceMeters float64              `json:"distance_meters"`
	ID             uuid.UUID            `json:"id"`
}

// Get handles GET /api/v1/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project id", map[string]interface{}{
			"id": c.Param("id"),
		})
		return
	}

	bundle, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load project", err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Nearby handles GET /api/v1/projects/nearby.
// Radius is in metres and defaults to services.DefaultRadiusMeters.
func (h *ProjectHandler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	if req.Radius == 0 {
		req.Radius = services.DefaultRadiusMeters
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing nearby request", map[string]interface{}{
			"lat":    *req.Lat,
			"lng":    *req.Lng,
			"radius": req.Radius,
		})
	}

	projects, err := h.service.NearbyProjects(c.Request.Context(), *req.Lat, *req.Lng, req.Radius)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) || errors.Is(err, services.ErrInvalidRadius) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to query nearby projects", err)
		return
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, toSummary(&projects[i]))
	}

	c.JSON(http.StatusOK, NearbyResponse{
		Projects: summaries,
		Count:    len(summaries),
	})
}

func toSummary(p *repository.ProjectWithDistance) ProjectSummary {
	return ProjectSummary{
		ID:             p.Project.ID,
		Name:           p.Project.Name,
		Developer:      p.Project.Developer,
		Region:         p.Project.Region,
		Status:         p.Project.Status,
		PriceDisplay:   p.Project.PriceDisplay,
		PriceMin:       p.Project.PriceMin,
		CoverImageURL:  p.Project.CoverImageURL,
		Location:       p.Project.Location(),
		DistanceMeters: p.Distance,
	}
}
