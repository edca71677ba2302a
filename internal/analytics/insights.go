package analytics

import "fmt"

// RankedGroup pairs a group key with the score used for comparative
// ranking and the number of participants behind it.
type RankedGroup struct {
	Key              string
	Score            float64
	ParticipantCount int
}

// BestGroup selects the group with the highest score. Ties go to the
// group that appears first in the slice, which callers keep in grouping
// iteration order so the pick is reproducible for a fixed input order.
// Empty input returns false.
func BestGroup(groups []RankedGroup) (RankedGroup, bool) {
	if len(groups) == 0 {
		return RankedGroup{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Score > best.Score {
			best = g
		}
	}
	return best, true
}

// ResidenceInsights produces the comparative insight strings for a set of
// ranked residence groups. A single group yields no comparison, so the
// list is empty.
func ResidenceInsights(groups []RankedGroup) []string {
	if len(groups) < 2 {
		return nil
	}

	insights := make([]string, 0, 2)
	if best, ok := BestGroup(groups); ok {
		insights = append(insights, fmt.Sprintf("Best health performance: %s", best.Key))
	}

	total := 0
	for _, g := range groups {
		total += g.ParticipantCount
	}
	insights = append(insights, fmt.Sprintf("Total of %d participants across %d residences", total, len(groups)))

	return insights
}

// baseRecommendations is the fixed adherence guidance emitted for every
// medication analysis.
var baseRecommendations = []string{
	"Implement medication reminder schedules",
	"Monitor adherence at regular intervals",
	"Reinforce education on the importance of treatment",
}

// AdherenceRecommendations returns the base recommendation list, plus a
// targeted entry when any participants scored below the given threshold.
func AdherenceRecommendations(lowAdherenceCount int) []string {
	recs := make([]string, len(baseRecommendations))
	copy(recs, baseRecommendations)
	if lowAdherenceCount > 0 {
		recs = append(recs, fmt.Sprintf("Focus on %d participants with low adherence", lowAdherenceCount))
	}
	return recs
}

// AdherenceRisks renders risk-factor sentences from occurrence counts.
// Zero counts produce no sentence; no risks yields an empty list, not an
// error.
func AdherenceRisks(missedDoseCount, sideEffectCount int) []string {
	var risks []string
	if missedDoseCount > 0 {
		risks = append(risks, fmt.Sprintf("%d participants with missed doses", missedDoseCount))
	}
	if sideEffectCount > 0 {
		risks = append(risks, fmt.Sprintf("%d participants reported side effects", sideEffectCount))
	}
	return risks
}
