// Package services holds the application services between the HTTP
// handlers and the analytics engine. The analytics service owns the
// in-memory record collection and serializes access to it.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rm4health/internal/analytics"
	"rm4health/internal/metrics"
)

// Analysis type names accepted by Analysis and used as metric labels.
const (
	AnalysisLongitudinal = "longitudinal"
	AnalysisUtilization  = "utilization"
	AnalysisSleep        = "sleep"
	AnalysisMedication   = "medication"
	AnalysisResidence    = "residence"
)

// Report bundles all five analyses into one document.
type Report struct {
	GeneratedAt  string              `json:"generated_at"`
	RecordCount  int                 `json:"record_count"`
	Longitudinal analytics.Document  `json:"longitudinal_analysis"`
	Utilization  analytics.Document  `json:"healthcare_utilization"`
	Sleep        analytics.Document  `json:"sleep_patterns"`
	Medication   analytics.Document  `json:"medication_adherence"`
	Residence    analytics.Document  `json:"residence_comparison"`
}

// AnalyticsService owns the record collection and runs analyses over a
// snapshot of it. Reads take a shared lock; ingestion takes the write
// lock, so analyses never observe a half-replaced collection.
type AnalyticsService struct {
	logger   *slog.Logger
	analyzer *analytics.Analyzer
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	records []analytics.Record
}

// NewAnalyticsService creates the service. The metrics instance may be
// nil, in which case analysis observations are skipped.
func NewAnalyticsService(logger *slog.Logger, analyzer *analytics.Analyzer, m *metrics.Metrics) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		logger:   logger.With(slog.String("service", "analytics")),
		analyzer: analyzer,
		metrics:  m,
	}
}

// ReplaceRecords swaps the whole collection. Used at startup preload and
// by full re-imports.
func (s *AnalyticsService) ReplaceRecords(ctx context.Context, records []analytics.Record) {
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordsLoaded.Set(float64(len(records)))
	}
	s.logger.InfoContext(ctx, "record collection replaced",
		slog.Int("records", len(records)))
}

// AppendRecords adds records to the collection.
func (s *AnalyticsService) AppendRecords(ctx context.Context, records []analytics.Record) int {
	s.mu.Lock()
	s.records = append(s.records, records...)
	total := len(s.records)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordsLoaded.Set(float64(total))
	}
	s.logger.InfoContext(ctx, "records appended",
		slog.Int("added", len(records)),
		slog.Int("total", total))
	return total
}

// RecordCount returns the current collection size.
func (s *AnalyticsService) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// snapshot returns the shared record slice under the read lock. Records
// are immutable once ingested, so sharing the backing array is safe.
func (s *AnalyticsService) snapshot() []analytics.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Analysis dispatches to one analysis by type name.
func (s *AnalyticsService) Analysis(ctx context.Context, analysisType string) (analytics.Document, error) {
	switch analysisType {
	case AnalysisLongitudinal:
		return s.Longitudinal(ctx), nil
	case AnalysisUtilization:
		return s.Utilization(ctx), nil
	case AnalysisSleep:
		return s.Sleep(ctx), nil
	case AnalysisMedication:
		return s.Medication(ctx), nil
	case AnalysisResidence:
		return s.Residence(ctx), nil
	default:
		return nil, ErrUnknownAnalysis
	}
}

// Longitudinal runs the longitudinal analysis over the current records.
func (s *AnalyticsService) Longitudinal(ctx context.Context) analytics.Document {
	return s.run(ctx, AnalysisLongitudinal, s.analyzer.AnalyzeLongitudinal)
}

// Utilization runs the healthcare utilization analysis.
func (s *AnalyticsService) Utilization(ctx context.Context) analytics.Document {
	return s.run(ctx, AnalysisUtilization, s.analyzer.AnalyzeHealthcareUtilization)
}

// Sleep runs the sleep pattern analysis.
func (s *AnalyticsService) Sleep(ctx context.Context) analytics.Document {
	return s.run(ctx, AnalysisSleep, s.analyzer.AnalyzeSleepPatterns)
}

// Medication runs the medication adherence analysis.
func (s *AnalyticsService) Medication(ctx context.Context) analytics.Document {
	return s.run(ctx, AnalysisMedication, s.analyzer.AnalyzeMedicationAdherence)
}

// Residence runs the residence comparison analysis.
func (s *AnalyticsService) Residence(ctx context.Context) analytics.Document {
	return s.run(ctx, AnalysisResidence, s.analyzer.AnalyzeResidenceComparison)
}

func (s *AnalyticsService) run(ctx context.Context, name string, fn func(context.Context, []analytics.Record) analytics.Document) analytics.Document {
	start := time.Now()
	doc := fn(ctx, s.snapshot())
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(name, time.Since(start))
	}
	return doc
}

// FullReport runs all five analyses concurrently over the same snapshot
// and assembles them into one report.
func (s *AnalyticsService) FullReport(ctx context.Context) (*Report, error) {
	records := s.snapshot()
	report := &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		RecordCount: len(records),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Longitudinal = s.timed(gctx, AnalysisLongitudinal, records, s.analyzer.AnalyzeLongitudinal)
		return nil
	})
	g.Go(func() error {
		report.Utilization = s.timed(gctx, AnalysisUtilization, records, s.analyzer.AnalyzeHealthcareUtilization)
		return nil
	})
	g.Go(func() error {
		report.Sleep = s.timed(gctx, AnalysisSleep, records, s.analyzer.AnalyzeSleepPatterns)
		return nil
	})
	g.Go(func() error {
		report.Medication = s.timed(gctx, AnalysisMedication, records, s.analyzer.AnalyzeMedicationAdherence)
		return nil
	})
	g.Go(func() error {
		report.Residence = s.timed(gctx, AnalysisResidence, records, s.analyzer.AnalyzeResidenceComparison)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "full report generated",
		slog.Int("records", len(records)))
	return report, nil
}

func (s *AnalyticsService) timed(ctx context.Context, name string, records []analytics.Record, fn func(context.Context, []analytics.Record) analytics.Document) analytics.Document {
	start := time.Now()
	doc := fn(ctx, records)
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(name, time.Since(start))
	}
	return doc
}
