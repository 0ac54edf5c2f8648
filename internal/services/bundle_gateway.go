package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/stwalsh4118/propdesk/internal/logger"
	"github.com/stwalsh4118/propdesk/internal/models"
	"github.com/stwalsh4118/propdesk/internal/repository"
)

// ErrPartialInsert is returned when the project row was written but at least
// one of its sub-record collections was not.
var ErrPartialInsert = errors.New("sub-record insert failed")

// cleanupTimeout bounds the compensating delete, which runs even when the
// request context is already done.
const cleanupTimeout = 10 * time.Second

// BundleGateway persists one parsed bundle.
type BundleGateway interface {
	// InsertBundle writes the project and then all of its sub-records, and
	// returns the new project id. A bundle is all or nothing from the caller's
	// point of view: on any failure the id is uuid.Nil and the parent row has
	// been removed again where possible.
	InsertBundle(ctx context.Context, bundle *models.Bundle) (uuid.UUID, error)
}

type bundleGateway struct {
	repo repository.ProjectRepository
	log  *logger.Logger
}

// NewBundleGateway creates a BundleGateway backed by repo.
func NewBundleGateway(repo repository.ProjectRepository, log *logger.Logger) BundleGateway {
	return &bundleGateway{
		repo: repo,
		log:  log.WithComponent("gateway"),
	}
}

func (g *bundleGateway) InsertBundle(ctx context.Context, bundle *models.Bundle) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	id, err := g.repo.CreateProject(ctx, &bundle.Project)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert project: %w", err)
	}

	bundle.AssignProjectID(id)

	if err := g.insertChildren(ctx, bundle); err != nil {
		return uuid.Nil, g.rollback(ctx, id, err)
	}

	g.log.Debug("Bundle inserted", map[string]interface{}{
		"project_id": id.String(),
		"children":   bundle.ChildCount(),
	})
	return id, nil
}

// insertChildren writes every non-empty collection concurrently and waits for
// all of them, returning every failure joined.
func (g *bundleGateway) insertChildren(ctx context.Context, b *models.Bundle) error {
	p := pool.New().WithErrors()

	run := func(table string, n int, insert func(context.Context) error) {
		if n == 0 {
			return
		}
		p.Go(func() error {
			if err := insert(ctx); err != nil {
				g.log.Error("Sub-record insert failed", err, map[string]interface{}{
					"project_id": b.Project.ID.String(),
					"table":      table,
					"records":    n,
				})
				return fmt.Errorf("%s: %w", table, err)
			}
			return nil
		})
	}

	analysisCount := 0
	if !b.Analysis.IsEmpty() {
		analysisCount = 1
	}

	run("project_units", len(b.Units), func(ctx context.Context) error {
		return g.repo.CreateUnits(ctx, b.Units)
	})
	run("project_analysis", analysisCount, func(ctx context.Context) error {
		return g.repo.CreateAnalysis(ctx, &b.Analysis)
	})
	run("project_amenities", len(b.Amenities), func(ctx context.Context) error {
		return g.repo.CreateAmenities(ctx, b.Amenities)
	})
	run("project_landmarks", len(b.Landmarks), func(ctx context.Context) error {
		return g.repo.CreateLandmarks(ctx, b.Landmarks)
	})
	run("project_location_advantages", len(b.LocationAdvantages), func(ctx context.Context) error {
		return g.repo.CreateLocationAdvantages(ctx, b.LocationAdvantages)
	})
	run("project_competitors", len(b.Competitors), func(ctx context.Context) error {
		return g.repo.CreateCompetitors(ctx, b.Competitors)
	})
	run("project_cost_extras", len(b.CostExtras), func(ctx context.Context) error {
		return g.repo.CreateCostExtras(ctx, b.CostExtras)
	})

	return p.Wait()
}

// rollback deletes the parent after a child failure. Children cascade.
func (g *bundleGateway) rollback(ctx context.Context, id uuid.UUID, cause error) error {
	err := fmt.Errorf("%w for project %s: %w", ErrPartialInsert, id, cause)

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if delErr := g.repo.DeleteProject(cleanupCtx, id); delErr != nil {
		g.log.Error("Failed to remove partially inserted project; project is orphaned", delErr, map[string]interface{}{
			"project_id": id.String(),
		})
		return errors.Join(err, fmt.Errorf("orphaned project %s could not be removed: %w", id, delErr))
	}

	g.log.Warn("Removed partially inserted project", map[string]interface{}{
		"project_id": id.String(),
	})
	return err
}
