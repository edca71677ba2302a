package analytics

import (
	"context"
	"fmt"
	"log/slog"
)

// Well-known field names the analyses read directly.
const (
	FieldSleepQuality   = "sleep_quality"
	FieldSleepDuration  = "sleep_duration"
	FieldAdherenceScore = "adherence_score"
	FieldMissedDoses    = "missed_doses"
	FieldSideEffects    = "side_effects"
	FieldHealthScore    = "health_score"
	FieldSatisfaction   = "satisfaction"
	FieldActivityLevel  = "activity_level"
	FieldAge            = "age"
	FieldGender         = "gender"
)

// Config fixes the entity-key candidates, domain field allow-lists, and
// thresholds an Analyzer works with. Zero values are replaced with the
// defaults below.
type Config struct {
	// ParticipantKeys are tried in order to resolve a participant key.
	ParticipantKeys []string
	// ResidenceKeys are tried in order to resolve a residence key.
	ResidenceKeys []string
	// DefaultKey is the sentinel group for records with no key field.
	DefaultKey string

	SleepFields      []string
	MedicationFields []string
	HealthcareFields []string

	// DurationRangeLow/High bound the recommended nightly sleep hours.
	DurationRangeLow  float64
	DurationRangeHigh float64
	// HighAdherenceThreshold splits high from low adherence scores.
	HighAdherenceThreshold float64
	// LowAdherenceThreshold marks scores counted as critically low.
	LowAdherenceThreshold float64
	// PatternMinRecords is the record count above which the sleep
	// pattern flags flip true.
	PatternMinRecords int
	// TrendFieldCap limits how many numeric fields get a trend entry.
	TrendFieldCap int
	// TrendSampleCap limits the values echoed back per trend.
	TrendSampleCap int
}

// DefaultConfig returns the field sets and thresholds of the RM4Health
// study protocol.
func DefaultConfig() Config {
	return Config{
		ParticipantKeys: []string{"participant_id", "record_id"},
		ResidenceKeys:   []string{"residence_type", "location"},
		DefaultKey:      "unknown",
		SleepFields: []string{
			FieldSleepQuality, FieldSleepDuration, "sleep_disturbances",
			"bedtime", "wake_time", "sleep_efficiency",
		},
		MedicationFields: []string{
			"medication_adherence", FieldMissedDoses, "medication_changes",
			FieldSideEffects, FieldAdherenceScore, "medication_count",
		},
		HealthcareFields: []string{
			"healthcare_visits", "emergency_visits", "hospitalizations",
			"specialist_visits", "primary_care_visits", "medication_changes",
		},
		DurationRangeLow:       7,
		DurationRangeHigh:      9,
		HighAdherenceThreshold: 80,
		LowAdherenceThreshold:  50,
		PatternMinRecords:      5,
		TrendFieldCap:          5,
		TrendSampleCap:         10,
	}
}

// Analyzer computes the five analysis documents over a record
// collection. It holds no state between calls, never mutates its input,
// and never fails on malformed data — dirty values degrade to the
// documented sentinels instead. Running several analyses concurrently
// over the same records is safe.
type Analyzer struct {
	logger *slog.Logger
	cfg    Config
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the default
// slog logger; zero config fields take their protocol defaults.
func NewAnalyzer(logger *slog.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if len(cfg.ParticipantKeys) == 0 {
		cfg.ParticipantKeys = def.ParticipantKeys
	}
	if len(cfg.ResidenceKeys) == 0 {
		cfg.ResidenceKeys = def.ResidenceKeys
	}
	if cfg.DefaultKey == "" {
		cfg.DefaultKey = def.DefaultKey
	}
	if len(cfg.SleepFields) == 0 {
		cfg.SleepFields = def.SleepFields
	}
	if len(cfg.MedicationFields) == 0 {
		cfg.MedicationFields = def.MedicationFields
	}
	if len(cfg.HealthcareFields) == 0 {
		cfg.HealthcareFields = def.HealthcareFields
	}
	if cfg.DurationRangeHigh == 0 {
		cfg.DurationRangeLow = def.DurationRangeLow
		cfg.DurationRangeHigh = def.DurationRangeHigh
	}
	if cfg.HighAdherenceThreshold == 0 {
		cfg.HighAdherenceThreshold = def.HighAdherenceThreshold
	}
	if cfg.LowAdherenceThreshold == 0 {
		cfg.LowAdherenceThreshold = def.LowAdherenceThreshold
	}
	if cfg.PatternMinRecords == 0 {
		cfg.PatternMinRecords = def.PatternMinRecords
	}
	if cfg.TrendFieldCap == 0 {
		cfg.TrendFieldCap = def.TrendFieldCap
	}
	if cfg.TrendSampleCap == 0 {
		cfg.TrendSampleCap = def.TrendSampleCap
	}
	return &Analyzer{
		logger: logger.With(slog.String("component", "analytics")),
		cfg:    cfg,
	}
}

// Config returns the analyzer's effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// AnalyzeLongitudinal groups records by participant and summarizes each
// participant's observation span and per-field trends.
func (a *Analyzer) AnalyzeLongitudinal(ctx context.Context, records []Record) Document {
	if len(records) == 0 {
		return NewNoData()
	}

	groups := GroupBy(records, a.cfg.ParticipantKeys, a.cfg.DefaultKey)
	a.logger.DebugContext(ctx, "computing longitudinal analysis",
		slog.Int("records", len(records)),
		slog.Int("participants", len(groups)))

	participants := make([]ParticipantSummary, 0, len(groups))
	for _, g := range groups {
		participants = append(participants, ParticipantSummary{
			ID:           g.Key,
			TotalRecords: len(g.Records),
			DateRange:    ComputeDateRange(g.Records),
			Trends:       FieldTrends(g.Records, a.cfg.TrendFieldCap, a.cfg.TrendSampleCap),
		})
	}

	return &LongitudinalAnalysis{
		TotalParticipants: len(groups),
		Participants:      participants,
	}
}

// AnalyzeHealthcareUtilization summarizes the utilization fields across
// the whole collection: per-field count, average, and raw-value
// distribution, plus a one-sentence rollup.
func (a *Analyzer) AnalyzeHealthcareUtilization(ctx context.Context, records []Record) Document {
	if len(records) == 0 {
		return NewNoData()
	}

	summaries := make([]FieldSummary, 0, len(a.cfg.HealthcareFields))
	for _, field := range a.cfg.HealthcareFields {
		if len(CollectValues(records, field)) == 0 {
			continue
		}
		summaries = append(summaries, FieldSummary{
			Field: field,
			Stats: SummarizeField(records, field),
		})
	}

	stats := make(map[string]FieldStats, len(summaries))
	for _, s := range summaries {
		stats[s.Field] = s.Stats
	}

	a.logger.DebugContext(ctx, "computing utilization analysis",
		slog.Int("records", len(records)),
		slog.Int("fields_with_data", len(summaries)))

	return &UtilizationAnalysis{
		TotalParticipants: a.distinctParticipants(records),
		UtilizationStats:  stats,
		Summary:           summarizeUtilization(summaries),
	}
}

func summarizeUtilization(summaries []FieldSummary) string {
	if len(summaries) == 0 {
		return "No utilization data available"
	}
	return fmt.Sprintf("Total of %d utilization entries recorded. Most common: %s",
		TotalCount(summaries), MostCommonField(summaries))
}

func (a *Analyzer) distinctParticipants(records []Record) int {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		seen[rec.Resolve(a.cfg.ParticipantKeys, a.cfg.DefaultKey)] = true
	}
	return len(seen)
}

// AnalyzeSleepPatterns filters records to the sleep domain and summarizes
// quality, duration against the recommended range, and the coarse
// pattern flags.
func (a *Analyzer) AnalyzeSleepPatterns(ctx context.Context, records []Record) Document {
	if len(records) == 0 {
		return NewNoData()
	}

	sleepData := ExtractAll(records, a.cfg.SleepFields, a.cfg.ParticipantKeys, a.cfg.DefaultKey)
	a.logger.DebugContext(ctx, "computing sleep analysis",
		slog.Int("records", len(records)),
		slog.Int("sleep_records", len(sleepData)))

	quality := NumericSubset(CollectValues(sleepData, FieldSleepQuality))
	durations := NumericSubset(CollectValues(sleepData, FieldSleepDuration))

	// All three flags flip together on the record-count heuristic; this
	// is a placeholder, not a detector.
	enough := len(sleepData) > a.cfg.PatternMinRecords

	return &SleepAnalysis{
		TotalSleepRecords: len(sleepData),
		SleepQualityStats: QualityStats{
			Average:      Mean(quality),
			Median:       Median(quality),
			Distribution: IntDistribution(quality),
		},
		SleepDurationStats: DurationStats{
			AverageHours:       Mean(durations),
			RecommendedRange:   [2]float64{a.cfg.DurationRangeLow, a.cfg.DurationRangeHigh},
			WithinRangePercent: WithinRangePercent(durations, a.cfg.DurationRangeLow, a.cfg.DurationRangeHigh),
		},
		Patterns: SleepPatternFlags{
			ConsistentBedtime: enough,
			RegularWakeTime:   enough,
			AdequateDuration:  enough,
		},
	}
}

// AnalyzeMedicationAdherence filters records to the medication domain and
// derives adherence statistics, risk factors, and recommendations.
func (a *Analyzer) AnalyzeMedicationAdherence(ctx context.Context, records []Record) Document {
	if len(records) == 0 {
		return NewNoData()
	}

	medData := ExtractAll(records, a.cfg.MedicationFields, a.cfg.ParticipantKeys, a.cfg.DefaultKey)
	a.logger.DebugContext(ctx, "computing medication analysis",
		slog.Int("records", len(records)),
		slog.Int("medication_records", len(medData)))

	scores := NumericSubset(CollectValues(medData, FieldAdherenceScore))

	high := 0
	lowCount := 0
	belowThreshold := 0
	for _, s := range scores {
		if s >= a.cfg.HighAdherenceThreshold {
			high++
		}
		if s < a.cfg.LowAdherenceThreshold {
			lowCount++
		}
		if s < a.cfg.HighAdherenceThreshold {
			belowThreshold++
		}
	}
	highPercent := 0.0
	if len(scores) > 0 {
		highPercent = float64(high) / float64(len(scores)) * 100
	}

	missedDoses := 0
	sideEffects := 0
	for _, rec := range medData {
		if f, ok := rec.Get(FieldMissedDoses).Float(); ok && f > 0 {
			missedDoses++
		}
		if !rec.Get(FieldSideEffects).IsEmpty() {
			sideEffects++
		}
	}

	return &MedicationAnalysis{
		TotalMedicationRecords: len(medData),
		AdherenceStats: AdherenceStats{
			AverageAdherence:     Mean(scores),
			HighAdherencePercent: highPercent,
			LowAdherenceCount:    lowCount,
		},
		RiskFactors:     AdherenceRisks(missedDoses, sideEffects),
		Recommendations: AdherenceRecommendations(belowThreshold),
	}
}

// AnalyzeResidenceComparison groups records by residence and compares
// health metrics and demographics across the groups, ranking them by
// average health score.
func (a *Analyzer) AnalyzeResidenceComparison(ctx context.Context, records []Record) Document {
	if len(records) == 0 {
		return NewNoData()
	}

	groups := GroupBy(records, a.cfg.ResidenceKeys, a.cfg.DefaultKey)
	a.logger.DebugContext(ctx, "computing residence comparison",
		slog.Int("records", len(records)),
		slog.Int("residences", len(groups)))

	comparison := make(map[string]ResidenceSummary, len(groups))
	ranked := make([]RankedGroup, 0, len(groups))

	for _, g := range groups {
		healthAvg := Mean(NumericSubset(CollectValues(g.Records, FieldHealthScore)))
		summary := ResidenceSummary{
			ParticipantCount: len(g.Records),
			HealthMetrics: HealthMetrics{
				HealthScoreAvg:   healthAvg,
				SatisfactionAvg:  Mean(NumericSubset(CollectValues(g.Records, FieldSatisfaction))),
				ActivityLevelAvg: Mean(NumericSubset(CollectValues(g.Records, FieldActivityLevel))),
			},
			Demographics: Demographics{
				AverageAge:         Mean(NumericSubset(CollectValues(g.Records, FieldAge))),
				GenderDistribution: Distribution(CollectValues(g.Records, FieldGender)),
				TotalParticipants:  len(g.Records),
			},
		}
		comparison[g.Key] = summary
		ranked = append(ranked, RankedGroup{
			Key:              g.Key,
			Score:            healthAvg,
			ParticipantCount: len(g.Records),
		})
	}

	return &ResidenceAnalysis{
		TotalResidences: len(groups),
		Comparison:      comparison,
		Insights:        ResidenceInsights(ranked),
	}
}
