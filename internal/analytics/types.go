package analytics

// Document is the serializable result of one analysis call: either one of
// the typed analysis results below or the NoData sentinel. Documents are
// built fresh per call and the engine keeps no reference afterwards.
type Document interface{}

// NoDataMessage is the documented sentinel emitted when an analysis is
// asked to run over an empty record collection. This is the engine's only
// "empty" contract; it is not an error.
const NoDataMessage = "no data available"

// NoData is the sentinel document for empty input. It carries the message
// and nothing else.
type NoData struct {
	Message string `json:"message"`
}

// NewNoData returns the sentinel document.
func NewNoData() NoData {
	return NoData{Message: NoDataMessage}
}

// LongitudinalAnalysis summarizes per-participant observation history.
type LongitudinalAnalysis struct {
	TotalParticipants int                  `json:"total_participants"`
	Participants      []ParticipantSummary `json:"participants"`
}

// ParticipantSummary is one participant's slice of a longitudinal
// analysis.
type ParticipantSummary struct {
	ID           string           `json:"id"`
	TotalRecords int              `json:"total_records"`
	DateRange    DateRange        `json:"date_range"`
	Trends       map[string]Trend `json:"trends"`
}

// UtilizationAnalysis summarizes healthcare utilization fields across the
// whole collection.
type UtilizationAnalysis struct {
	TotalParticipants int                   `json:"total_participants"`
	UtilizationStats  map[string]FieldStats `json:"utilization_stats"`
	Summary           string                `json:"summary"`
}

// QualityStats carries the sleep-quality statistic bundle. The
// distribution buckets coerced scores by integer value.
type QualityStats struct {
	Average      float64        `json:"average"`
	Median       float64        `json:"median"`
	Distribution map[string]int `json:"distribution"`
}

// DurationStats carries sleep-duration statistics against the
// recommended nightly range.
type DurationStats struct {
	AverageHours       float64    `json:"average_hours"`
	RecommendedRange   [2]float64 `json:"recommended_range"`
	WithinRangePercent float64    `json:"within_range_percent"`
}

// SleepPatternFlags are coarse heuristics, not real pattern detection:
// all three flip true together once the filtered set is large enough.
type SleepPatternFlags struct {
	ConsistentBedtime bool `json:"consistent_bedtime"`
	RegularWakeTime   bool `json:"regular_wake_time"`
	AdequateDuration  bool `json:"adequate_duration"`
}

// SleepAnalysis is the sleep-domain analysis document.
type SleepAnalysis struct {
	TotalSleepRecords  int               `json:"total_sleep_records"`
	SleepQualityStats  QualityStats      `json:"sleep_quality_stats"`
	SleepDurationStats DurationStats     `json:"sleep_duration_stats"`
	Patterns           SleepPatternFlags `json:"patterns"`
}

// AdherenceStats carries medication-adherence statistics.
type AdherenceStats struct {
	AverageAdherence     float64 `json:"average_adherence"`
	HighAdherencePercent float64 `json:"high_adherence_percent"`
	LowAdherenceCount    int     `json:"low_adherence_count"`
}

// MedicationAnalysis is the medication-domain analysis document.
type MedicationAnalysis struct {
	TotalMedicationRecords int            `json:"total_medication_records"`
	AdherenceStats         AdherenceStats `json:"adherence_stats"`
	RiskFactors            []string       `json:"risk_factors"`
	Recommendations        []string       `json:"recommendations"`
}

// HealthMetrics carries the per-residence averaged health measures.
type HealthMetrics struct {
	HealthScoreAvg   float64 `json:"health_score_avg"`
	SatisfactionAvg  float64 `json:"satisfaction_avg"`
	ActivityLevelAvg float64 `json:"activity_level_avg"`
}

// Demographics summarizes who lives behind a residence group.
type Demographics struct {
	AverageAge         float64        `json:"average_age"`
	GenderDistribution map[string]int `json:"gender_distribution"`
	TotalParticipants  int            `json:"total_participants"`
}

// ResidenceSummary is one residence group's slice of the comparison.
type ResidenceSummary struct {
	ParticipantCount int           `json:"participant_count"`
	HealthMetrics    HealthMetrics `json:"health_metrics"`
	Demographics     Demographics  `json:"demographics"`
}

// ResidenceAnalysis compares groups of records by residence or location.
type ResidenceAnalysis struct {
	TotalResidences int                         `json:"total_residences"`
	Comparison      map[string]ResidenceSummary `json:"comparison"`
	Insights        []string                    `json:"insights"`
}
