// Package spreadsheet turns uploaded workbook files into raw ingest rows.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/stwalsh4118/propdesk/internal/ingest"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv,
	// or whose content does not match their extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrSheetNotFound is returned when a workbook lacks the import worksheet.
	ErrSheetNotFound = errors.New("worksheet not found")
	// ErrUnreadable is returned when a file has the right type but cannot be decoded.
	ErrUnreadable = errors.New("file could not be read")
)

// Format is a supported upload format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Options controls how a file is decoded.
type Options struct {
	// SheetName is the worksheet read from xlsx workbooks. Matched case-insensitively.
	SheetName string
	// HeaderRows is the number of leading rows skipped before data starts.
	HeaderRows int
}

// FormatOf returns the format implied by the file name's extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q (expected .xlsx or .csv)", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Decode reads the data rows of an uploaded file. Header rows and trailing
// blank rows are dropped; the remaining rows keep their file order, so row i
// of the result is file row i+HeaderRows+1.
func Decode(filename string, data []byte, opts Options) ([]ingest.Row, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	if err := sniff(format, data); err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data, opts.SheetName)
	case FormatCSV:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return toRows(records, opts.HeaderRows), nil
}

// sniff checks that the content matches the claimed format. Workbooks are zip
// containers; csv must be text.
func sniff(format Format, data []byte) error {
	want := "text/plain"
	if format == FormatXLSX {
		want = "application/zip"
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(want) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s content detected as %s", ErrUnsupportedFormat, format, detected.String())
}

func readXLSX(data []byte, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(sheetName)) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	// Raw values keep numbers unformatted and dates as serials.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadable, sheet, err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return records, nil
}

func toRows(records [][]string, headerRows int) []ingest.Row {
	if headerRows < 0 {
		headerRows = 0
	}
	if headerRows >= len(records) {
		return []ingest.Row{}
	}
	records = records[headerRows:]

	end := len(records)
	for end > 0 && isBlank(records[end-1]) {
		end--
	}

	rows := make([]ingest.Row, 0, end)
	for _, record := range records[:end] {
		row := make(ingest.Row, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
