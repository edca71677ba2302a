package http

import (
	"context"
	"io"

	"rm4health/internal/analytics"
	"rm4health/internal/services"
)

// AnalyticsServiceInterface is what the handlers need from the service
// layer. Defined handler-side so tests can substitute a stub.
type AnalyticsServiceInterface interface {
	Analysis(ctx context.Context, analysisType string) (analytics.Document, error)
	FullReport(ctx context.Context) (*services.Report, error)
	ReplaceRecords(ctx context.Context, records []analytics.Record)
	AppendRecords(ctx context.Context, records []analytics.Record) int
	RecordCount() int
}

// ReportExporterInterface renders a report into a download format.
type ReportExporterInterface interface {
	WriteCSV(w io.Writer, report *services.Report) error
	WriteXLSX(w io.Writer, report *services.Report) error
}
