package alerts

import (
	"sort"
	"time"

	"github.com/kumohax/platform/pkg/common/models"
)

const (
	recentLimit    = 8
	highRiskBound  = 0.6
	lowerFillBound = 0.3
)

// Recent derives a bounded list of alert entries from the current patient
// population: the highest-risk patients first, backfilled with medium-risk
// ones when fewer than the limit exceed the high-risk bound. Derived alerts
// are a snapshot view, not a log of streamed events.
func Recent(rows []models.EnrichedPatient, now time.Time) []models.AlertEvent {
	sorted := make([]models.EnrichedPatient, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RiskScore > sorted[j].RiskScore
	})

	out := make([]models.AlertEvent, 0, recentLimit)
	for _, p := range sorted {
		if len(out) >= recentLimit {
			break
		}
		if p.RiskScore > highRiskBound {
			out = append(out, derive(p, now, len(out)))
		}
	}
	for _, p := range sorted {
		if len(out) >= recentLimit {
			break
		}
		if p.RiskScore > lowerFillBound && p.RiskScore <= highRiskBound {
			out = append(out, derive(p, now, len(out)))
		}
	}
	return out
}

func derive(p models.EnrichedPatient, now time.Time, position int) models.AlertEvent {
	condition := "Elevated Risk Profile"
	if len(p.PredictedEvents) > 0 {
		condition = p.PredictedEvents[0].Label
	}
	return models.AlertEvent{
		Type:       "kumorfm_alert",
		ID:         "ALT-" + p.ID,
		PatientID:  p.ID,
		RiskScore:  p.RiskScore,
		Condition:  condition,
		Severity:   severityFor(p.RiskScore),
		Confidence: p.Confidence,
		DataSource: p.DataSource,
		Timestamp:  now.Add(-time.Duration(position+1) * time.Hour),
	}
}

func severityFor(score float64) string {
	switch {
	case score >= 0.8:
		return models.SeverityCritical
	case score >= 0.7:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}
