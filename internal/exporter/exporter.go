// Package exporter renders a full analysis report as CSV or as an Excel
// workbook. Both formats flatten the analysis documents into key/value
// rows; the workbook gets one sheet per analysis, the CSV one section
// per analysis.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"rm4health/internal/analytics"
	"rm4health/internal/services"
)

// utf8BOM helps Excel recognize UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// section pairs a display title with the analysis document behind it.
type section struct {
	Title    string
	Document analytics.Document
}

// ReportExporter writes analysis reports to CSV and XLSX.
type ReportExporter struct {
	logger *slog.Logger
}

// NewReportExporter creates an exporter. A nil logger falls back to the
// default slog logger.
func NewReportExporter(logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{logger: logger.With(slog.String("component", "exporter"))}
}

func reportSections(report *services.Report) []section {
	return []section{
		{Title: "Longitudinal Analysis", Document: report.Longitudinal},
		{Title: "Healthcare Utilization", Document: report.Utilization},
		{Title: "Sleep Patterns", Document: report.Sleep},
		{Title: "Medication Adherence", Document: report.Medication},
		{Title: "Residence Comparison", Document: report.Residence},
	}
}

// WriteCSV renders the report as a sectioned CSV document with a UTF-8
// BOM for spreadsheet compatibility.
func (e *ReportExporter) WriteCSV(w io.Writer, report *services.Report) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"generated_at", report.GeneratedAt}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.Write([]string{"record_count", strconv.Itoa(report.RecordCount)}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, sec := range reportSections(report) {
		// blank separator row between sections
		if err := cw.Write([]string{""}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if err := cw.Write([]string{sec.Title}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}

		rows, err := flattenDocument(sec.Document)
		if err != nil {
			return fmt.Errorf("failed to flatten %s: %w", sec.Title, err)
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	e.logger.Debug("report exported",
		slog.String("format", "csv"),
		slog.Int("records", report.RecordCount))
	return nil
}

// WriteXLSX renders the report as an Excel workbook with one sheet per
// analysis plus a summary sheet.
func (e *ReportExporter) WriteXLSX(w io.Writer, report *services.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "generated_at")
	f.SetCellValue(summary, "B1", report.GeneratedAt)
	f.SetCellValue(summary, "A2", "record_count")
	f.SetCellValue(summary, "B2", report.RecordCount)

	for _, sec := range reportSections(report) {
		if _, err := f.NewSheet(sec.Title); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sec.Title, err)
		}

		rows, err := flattenDocument(sec.Document)
		if err != nil {
			return fmt.Errorf("failed to flatten %s: %w", sec.Title, err)
		}
		for i, row := range rows {
			for j, cell := range row {
				ref, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return fmt.Errorf("failed to compute cell reference: %w", err)
				}
				if err := f.SetCellValue(sec.Title, ref, cell); err != nil {
					return fmt.Errorf("failed to set cell %s: %w", ref, err)
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("report exported",
		slog.String("format", "xlsx"),
		slog.Int("records", report.RecordCount))
	return nil
}

// flattenDocument turns an analysis document into sorted key/value rows
// via its JSON form, so exports always match the API representation.
func flattenDocument(doc analytics.Document) ([][]string, error) {
	if doc == nil {
		return nil, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	flat := make(map[string]string)
	flattenValue("", tree, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, flat[k]})
	}
	return rows, nil
}

func flattenValue(prefix string, v interface{}, out map[string]string) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			flattenValue(joinKey(prefix, k), child, out)
		}
	case []interface{}:
		for i, child := range val {
			flattenValue(joinKey(prefix, strconv.Itoa(i)), child, out)
		}
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprintf("%v", val)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
