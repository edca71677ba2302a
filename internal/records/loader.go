// Package records loads observation records from the export formats the
// data capture system produces: JSON arrays, CSV, and Excel workbooks.
//
// Loaded cells stay textual; numeric coercion is the analytics engine's
// job and happens per field at analysis time. Empty cells are dropped so
// that a blank CSV column and a missing JSON key look the same
// downstream.
package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"rm4health/internal/analytics"
)

// utf8BOM prefixes CSV exports from spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads record collections from files or streams.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to the default
// slog logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "records"))}
}

// LoadFile reads a record collection from disk, dispatching on the file
// extension. Supported extensions are .json, .csv, and .xlsx.
func (l *Loader) LoadFile(path string) ([]analytics.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var (
		records []analytics.Record
		loadErr error
	)
	switch ext {
	case ".json":
		records, loadErr = l.LoadJSON(f)
	case ".csv":
		records, loadErr = l.LoadCSV(f)
	case ".xlsx":
		records, loadErr = l.LoadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported records format %q", ext)
	}
	if loadErr != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), loadErr)
	}

	l.logger.Info("loaded records file",
		slog.String("file", filepath.Base(path)),
		slog.Int("records", len(records)))
	return records, nil
}

// LoadJSON reads a JSON array of record objects. Key order within each
// object is preserved.
func (l *Loader) LoadJSON(r io.Reader) ([]analytics.Record, error) {
	var records []analytics.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON records: %w", err)
	}
	return records, nil
}

// LoadCSV reads a header-rowed CSV export. A leading UTF-8 BOM is
// stripped, blank cells are dropped, and ragged rows are tolerated up to
// the header width.
func (l *Loader) LoadCSV(r io.Reader) ([]analytics.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV data: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	return rowsToRecords(header, rows[1:]), nil
}

// LoadXLSX reads the first sheet of an Excel workbook, treating the
// first row as the header. Formatted cell text is used as-is.
func (l *Loader) LoadXLSX(r io.Reader) ([]analytics.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	return rowsToRecords(header, rows[1:]), nil
}

// rowsToRecords zips data rows against the header, skipping blank cells,
// blank header columns, and rows that end up with no fields at all.
func rowsToRecords(header []string, rows [][]string) []analytics.Record {
	records := make([]analytics.Record, 0, len(rows))
	for _, row := range rows {
		var rec analytics.Record
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			rec.Set(header[i], analytics.String(cell))
		}
		if rec.Len() == 0 {
			continue
		}
		records = append(records, rec)
	}
	return records
}
