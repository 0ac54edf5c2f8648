package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stwalsh4118/propdesk/internal/ingest"
	"github.com/stwalsh4118/propdesk/internal/logger"
	"github.com/stwalsh4118/propdesk/internal/models"
)

// Request-level import errors. Both are returned before any row is parsed.
var (
	ErrNoDataRows  = errors.New("no data rows found")
	ErrTooManyRows = errors.New("too many rows")
)

// RowParser turns a raw row into a bundle.
type RowParser interface {
	Parse(row ingest.Row) (*models.Bundle, error)
}

// RowValidator checks a parsed bundle.
type RowValidator interface {
	Validate(bundle *models.Bundle) ingest.Result
}

// RowError lists why one spreadsheet row was not imported.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// BatchResult summarises one import. Success + Failed always equals Total.
type BatchResult struct {
	Errors     []RowError  `json:"errors"`
	ProjectIDs []uuid.UUID `json:"projectIds"`
	Total      int         `json:"total"`
	Success    int         `json:"success"`
	Failed     int         `json:"failed"`
}

func newBatchResult(total int) *BatchResult {
	return &BatchResult{
		Total:      total,
		Errors:     []RowError{},
		ProjectIDs: []uuid.UUID{},
	}
}

// ImportOptions configures the batch orchestrator.
type ImportOptions struct {
	// MaxRows is the largest batch accepted.
	MaxRows int
	// HeaderRows is the number of sheet rows above the first data row; it
	// turns a row index into the row number the user sees in their sheet.
	HeaderRows int
}

// ImportService runs a batch of raw rows through parse, validate and persist.
type ImportService interface {
	// ProcessBatch imports rows one at a time. A failing row is recorded in the
	// result and never stops the batch. The only errors returned are the
	// request-level guards ErrNoDataRows and ErrTooManyRows.
	ProcessBatch(ctx context.Context, rows []ingest.Row) (*BatchResult, error)
}

type importService struct {
	parser    RowParser
	validator RowValidator
	gateway   BundleGateway
	opts      ImportOptions
	log       *logger.Logger
}

// NewImportService creates an ImportService.
func NewImportService(parser RowParser, validator RowValidator, gateway BundleGateway, opts ImportOptions, log *logger.Logger) ImportService {
	return &importService{
		parser:    parser,
		validator: validator,
		gateway:   gateway,
		opts:      opts,
		log:       log.WithComponent("import"),
	}
}

func (s *importService) ProcessBatch(ctx context.Context, rows []ingest.Row) (*BatchResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	if len(rows) > s.opts.MaxRows {
		return nil, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyRows, len(rows), s.opts.MaxRows)
	}

	start := time.Now()
	result := newBatchResult(len(rows))

	for i, row := range rows {
		displayRow := i + s.opts.HeaderRows + 1

		id, messages := s.processRow(ctx, row)
		if len(messages) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: displayRow, Errors: messages})
			s.log.Warn("Row rejected", map[string]interface{}{
				"row":    displayRow,
				"errors": messages,
			})
			continue
		}

		result.Success++
		result.ProjectIDs = append(result.ProjectIDs, id)
	}

	s.log.Info("Import batch processed", map[string]interface{}{
		"total":       result.Total,
		"success":     result.Success,
		"failed":      result.Failed,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result, nil
}

// processRow returns the new project id, or the messages explaining why the
// row was not imported.
func (s *importService) processRow(ctx context.Context, row ingest.Row) (uuid.UUID, []string) {
	bundle, err := s.parse(row)
	if err != nil {
		return uuid.Nil, []string{fmt.Sprintf("Row could not be parsed: %v", err)}
	}

	if v := s.validator.Validate(bundle); !v.Valid {
		if len(v.Errors) == 0 {
			return uuid.Nil, []string{"Row failed validation"}
		}
		return uuid.Nil, v.Errors
	}

	if err := ctx.Err(); err != nil {
		return uuid.Nil, []string{"Import was cancelled before this row was saved"}
	}

	id, err := s.gateway.InsertBundle(ctx, bundle)
	if err != nil {
		s.log.Error("Failed to save project", err, map[string]interface{}{
			"project": bundle.Project.Name,
		})
		return uuid.Nil, []string{"Failed to save project: " + err.Error()}
	}

	return id, nil
}

// parse runs the parser, converting a panic into an error for this row only.
func (s *importService) parse(row ingest.Row) (bundle *models.Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			bundle, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return s.parser.Parse(row)
}
