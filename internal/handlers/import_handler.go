package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stwalsh4118/propdesk/internal/config"
	apierrors "github.com/stwalsh4118/propdesk/internal/errors"
	"github.com/stwalsh4118/propdesk/internal/ingest"
	"github.com/stwalsh4118/propdesk/internal/middleware"
	"github.com/stwalsh4118/propdesk/internal/services"
	"github.com/stwalsh4118/propdesk/internal/spreadsheet"
)

const (
	// uploadField is the multipart form field carrying the spreadsheet.
	uploadField = "file"
	// multipartOverhead is the room left for boundaries and part headers.
	multipartOverhead = 64 << 10
)

var errFileTooLarge = errors.New("file too large")

// ImportHandler accepts spreadsheet uploads and runs them through the import pipeline.
type ImportHandler struct {
	service services.ImportService
	cfg     config.ImportConfig
}

// NewImportHandler creates a new ImportHandler instance.
func NewImportHandler(service services.ImportService, cfg config.ImportConfig) *ImportHandler {
	return &ImportHandler{
		service: service,
		cfg:     cfg,
	}
}

// ImportRowsRequest is the body of the pre-decoded rows endpoint. Every
// element of Rows must be an array; anything else rejects the whole request.
// Unusable cells inside a row fail only that row.
type ImportRowsRequest struct {
	Rows []ingest.Row `json:"rows" binding:"required"`
}

// BodyLimit is the largest request body an upload may have.
func (h *ImportHandler) BodyLimit() int64 {
	return h.cfg.MaxUploadBytes + multipartOverhead
}

// Upload handles POST /api/v1/projects/import.
// The response is 200 with a BatchResult whenever the file itself was
// acceptable, even if every row failed.
func (h *ImportHandler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.BodyLimit() {
		h.fileTooLarge(c)
		return
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fileTooLarge(c)
			return
		}
		apierrors.BadRequest(c, "No file uploaded", map[string]interface{}{
			"field": uploadField,
		})
		return
	}

	if _, err := spreadsheet.FormatOf(header.Filename); err != nil {
		unsupportedFile(c, header.Filename)
		return
	}

	data, err := h.readUpload(header)
	if errors.Is(err, errFileTooLarge) {
		h.fileTooLarge(c)
		return
	}
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}

	rows, err := spreadsheet.Decode(header.Filename, data, spreadsheet.Options{
		SheetName:  h.cfg.SheetName,
		HeaderRows: h.cfg.HeaderRows,
	})
	if err != nil {
		h.decodeFailed(c, header.Filename, err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Spreadsheet decoded", map[string]interface{}{
			"filename": header.Filename,
			"bytes":    header.Size,
			"rows":     len(rows),
		})
	}

	h.process(c, rows)
}

// ImportRows handles POST /api/v1/projects/import/rows with rows that were
// already decoded by the caller. Guards and result shape match Upload.
func (h *ImportHandler) ImportRows(c *gin.Context) {
	var req ImportRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	h.process(c, req.Rows)
}

func (h *ImportHandler) process(c *gin.Context, rows []ingest.Row) {
	ctx := c.Request.Context()
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	result, err := h.service.ProcessBatch(ctx, rows)
	switch {
	case errors.Is(err, services.ErrNoDataRows):
		apierrors.BadRequest(c, "No data rows found", map[string]interface{}{
			"header_rows": h.cfg.HeaderRows,
		})
	case errors.Is(err, services.ErrTooManyRows):
		apierrors.BadRequest(c, fmt.Sprintf("Too many rows. Maximum %d projects per upload", h.cfg.MaxRows), map[string]interface{}{
			"rows":     len(rows),
			"max_rows": h.cfg.MaxRows,
		})
	case err != nil:
		apierrors.InternalServerError(c, "Failed to process import", err)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// readUpload reads the whole file, failing if it is larger than the limit
// even when the multipart header under-reports its size.
func (h *ImportHandler) readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > h.cfg.MaxUploadBytes {
		return nil, errFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}

func (h *ImportHandler) decodeFailed(c *gin.Context, filename string, err error) {
	switch {
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		unsupportedFile(c, filename)
	case errors.Is(err, spreadsheet.ErrSheetNotFound):
		apierrors.BadRequest(c, fmt.Sprintf("Worksheet %q not found in workbook", h.cfg.SheetName), map[string]interface{}{
			"sheet": h.cfg.SheetName,
		})
	case errors.Is(err, spreadsheet.ErrUnreadable):
		apierrors.BadRequest(c, "File could not be read. Check that it is a valid spreadsheet", map[string]interface{}{
			"filename": filename,
		})
	default:
		apierrors.InternalServerError(c, "Failed to decode spreadsheet", err)
	}
}

func (h *ImportHandler) fileTooLarge(c *gin.Context) {
	apierrors.BadRequest(c, "File too large. Maximum size is "+formatSize(h.cfg.MaxUploadBytes), map[string]interface{}{
		"max_bytes": h.cfg.MaxUploadBytes,
	})
}

func unsupportedFile(c *gin.Context, filename string) {
	apierrors.BadRequest(c, "Unsupported file type. Upload an .xlsx or .csv file", map[string]interface{}{
		"filename": filename,
	})
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
