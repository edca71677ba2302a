package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(nil, DefaultConfig())
}

func TestAnalyzerEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() Document
	}{
		{"longitudinal", func() Document { return a.AnalyzeLongitudinal(ctx, nil) }},
		{"utilization", func() Document { return a.AnalyzeHealthcareUtilization(ctx, nil) }},
		{"sleep", func() Document { return a.AnalyzeSleepPatterns(ctx, nil) }},
		{"medication", func() Document { return a.AnalyzeMedicationAdherence(ctx, nil) }},
		{"residence", func() Document { return a.AnalyzeResidenceComparison(ctx, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NewNoData(), tt.run())
		})
	}
}

func TestAnalyzeSleepPatterns(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []Record{
		NewRecord(Field{"participant_id", String("P001")}, Field{"sleep_quality", String("6")}, Field{"sleep_duration", Number(7.5)}),
		NewRecord(Field{"participant_id", String("P002")}, Field{"sleep_quality", String("7")}, Field{"sleep_duration", Number(6)}),
		NewRecord(Field{"participant_id", String("P003")}, Field{"sleep_quality", String("8")}, Field{"sleep_duration", Number(8)}),
		NewRecord(Field{"participant_id", String("P004")}, Field{"heart_rate", Number(70)}),
	}

	doc := a.AnalyzeSleepPatterns(context.Background(), records)
	analysis, ok := doc.(*SleepAnalysis)
	require.True(t, ok)

	// The heart-rate-only record contributes no sleep fields
	assert.Equal(t, 3, analysis.TotalSleepRecords)
	assert.Equal(t, 7.0, analysis.SleepQualityStats.Average)
	assert.Equal(t, 7.0, analysis.SleepQualityStats.Median)
	assert.Equal(t, map[string]int{"6": 1, "7": 1, "8": 1}, analysis.SleepQualityStats.Distribution)

	assert.InDelta(t, 7.1667, analysis.SleepDurationStats.AverageHours, 0.001)
	assert.Equal(t, [2]float64{7, 9}, analysis.SleepDurationStats.RecommendedRange)
	assert.InDelta(t, 66.667, analysis.SleepDurationStats.WithinRangePercent, 0.001)

	// Three records is below the pattern threshold
	assert.False(t, analysis.Patterns.ConsistentBedtime)
	assert.False(t, analysis.Patterns.RegularWakeTime)
	assert.False(t, analysis.Patterns.AdequateDuration)
}

func TestAnalyzeSleepPatternsFlagsFlipTogether(t *testing.T) {
	a := newTestAnalyzer(t)

	var records []Record
	for i := 0; i < 6; i++ {
		records = append(records, NewRecord(Field{"sleep_quality", Number(7)}))
	}

	analysis := a.AnalyzeSleepPatterns(context.Background(), records).(*SleepAnalysis)
	assert.True(t, analysis.Patterns.ConsistentBedtime)
	assert.True(t, analysis.Patterns.RegularWakeTime)
	assert.True(t, analysis.Patterns.AdequateDuration)
}

func TestAnalyzeMedicationAdherence(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []Record{
		NewRecord(Field{"participant_id", String("P001")}, Field{"adherence_score", Number(95)}),
		NewRecord(Field{"participant_id", String("P002")}, Field{"adherence_score", Number(60)}, Field{"missed_doses", Number(2)}),
		NewRecord(Field{"participant_id", String("P003")}, Field{"adherence_score", Number(40)}, Field{"side_effects", String("nausea")}),
		NewRecord(Field{"participant_id", String("P004")}, Field{"heart_rate", Number(70)}),
	}

	analysis := a.AnalyzeMedicationAdherence(context.Background(), records).(*MedicationAnalysis)

	assert.Equal(t, 3, analysis.TotalMedicationRecords)
	assert.Equal(t, 65.0, analysis.AdherenceStats.AverageAdherence)
	assert.InDelta(t, 33.333, analysis.AdherenceStats.HighAdherencePercent, 0.001)
	assert.Equal(t, 1, analysis.AdherenceStats.LowAdherenceCount)

	assert.Equal(t, []string{
		"1 participants with missed doses",
		"1 participants reported side effects",
	}, analysis.RiskFactors)

	require.Len(t, analysis.Recommendations, 4)
	assert.Equal(t, "Focus on 2 participants with low adherence", analysis.Recommendations[3])
}

func TestAnalyzeLongitudinal(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []Record{
		NewRecord(Field{"participant_id", String("P001")}, Field{"visit_date", String("2024-01-01")}, Field{"weight", Number(70)}),
		NewRecord(Field{"participant_id", String("P001")}, Field{"visit_date", String("2024-01-15")}, Field{"weight", Number(72)}),
		NewRecord(Field{"participant_id", String("P002")}, Field{"visit_date", String("2024-02-01")}, Field{"weight", Number(80)}),
	}

	analysis := a.AnalyzeLongitudinal(context.Background(), records).(*LongitudinalAnalysis)
	require.Equal(t, 2, analysis.TotalParticipants)
	require.Len(t, analysis.Participants, 2)

	p1 := analysis.Participants[0]
	assert.Equal(t, "P001", p1.ID)
	assert.Equal(t, 2, p1.TotalRecords)
	assert.Equal(t, "2024-01-01", p1.DateRange.StartDate)
	assert.Equal(t, "2024-01-15", p1.DateRange.EndDate)
	assert.Equal(t, 14, p1.DateRange.DurationDays)

	require.Contains(t, p1.Trends, "weight")
	assert.Equal(t, TrendIncreasing, p1.Trends["weight"].Direction)
	assert.InDelta(t, 2.857, p1.Trends["weight"].ChangePercent, 0.001)

	// A single record gives nothing to compare against
	p2 := analysis.Participants[1]
	assert.Equal(t, "P002", p2.ID)
	assert.Empty(t, p2.Trends)
}

func TestAnalyzeHealthcareUtilization(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []Record{
		NewRecord(Field{"participant_id", String("P001")}, Field{"healthcare_visits", Number(2)}),
		NewRecord(Field{"participant_id", String("P001")}, Field{"healthcare_visits", Number(4)}, Field{"emergency_visits", Number(1)}),
		NewRecord(Field{"participant_id", String("P002")}, Field{"healthcare_visits", Number(1)}),
	}

	analysis := a.AnalyzeHealthcareUtilization(context.Background(), records).(*UtilizationAnalysis)

	assert.Equal(t, 2, analysis.TotalParticipants)
	require.Contains(t, analysis.UtilizationStats, "healthcare_visits")
	require.Contains(t, analysis.UtilizationStats, "emergency_visits")
	assert.NotContains(t, analysis.UtilizationStats, "hospitalizations")

	visits := analysis.UtilizationStats["healthcare_visits"]
	assert.Equal(t, 3, visits.Count)
	assert.InDelta(t, 2.333, visits.Average, 0.001)

	assert.Equal(t, "Total of 4 utilization entries recorded. Most common: healthcare_visits", analysis.Summary)
}

func TestAnalyzeResidenceComparison(t *testing.T) {
	a := newTestAnalyzer(t)

	records := []Record{
		NewRecord(Field{"residence_type", String("urban")}, Field{"health_score", Number(6)}, Field{"age", Number(70)}, Field{"gender", String("F")}),
		NewRecord(Field{"residence_type", String("urban")}, Field{"health_score", Number(8)}, Field{"age", Number(74)}, Field{"gender", String("M")}),
		NewRecord(Field{"location", String("rural")}, Field{"health_score", Number(9)}, Field{"age", Number(68)}, Field{"gender", String("F")}),
		NewRecord(Field{"health_score", Number(5)}),
	}

	analysis := a.AnalyzeResidenceComparison(context.Background(), records).(*ResidenceAnalysis)

	assert.Equal(t, 3, analysis.TotalResidences)
	require.Contains(t, analysis.Comparison, "urban")
	require.Contains(t, analysis.Comparison, "rural")
	require.Contains(t, analysis.Comparison, "unknown")

	urban := analysis.Comparison["urban"]
	assert.Equal(t, 2, urban.ParticipantCount)
	assert.Equal(t, 7.0, urban.HealthMetrics.HealthScoreAvg)
	assert.Equal(t, 72.0, urban.Demographics.AverageAge)
	assert.Equal(t, map[string]int{"F": 1, "M": 1}, urban.Demographics.GenderDistribution)

	require.Len(t, analysis.Insights, 2)
	assert.Equal(t, "Best health performance: rural", analysis.Insights[0])
	assert.Equal(t, "Total of 4 participants across 3 residences", analysis.Insights[1])
}

func TestNewAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(nil, Config{})
	cfg := a.Config()

	assert.Equal(t, []string{"participant_id", "record_id"}, cfg.ParticipantKeys)
	assert.Equal(t, "unknown", cfg.DefaultKey)
	assert.Equal(t, 7.0, cfg.DurationRangeLow)
	assert.Equal(t, 9.0, cfg.DurationRangeHigh)
	assert.Equal(t, 5, cfg.TrendFieldCap)
	assert.Equal(t, 10, cfg.TrendSampleCap)
}
