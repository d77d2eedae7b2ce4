package analytics

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/kumohax/platform/pkg/common/models"
)

// Risk bucket boundaries shared by metrics, distribution and cohort analysis.
const (
	LowRiskBound  = 0.3
	HighRiskBound = 0.7

	alertBound = 0.6
)

// Aggregator derives dashboard figures from the patient set. The trend
// percentages are synthetic presentation values drawn from the injected
// random source; everything else is computed from the actual rows.
type Aggregator struct {
	demoMultiplier int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAggregator(demoMultiplier int, rng *rand.Rand) *Aggregator {
	if demoMultiplier < 1 {
		demoMultiplier = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Aggregator{demoMultiplier: demoMultiplier, rng: rng}
}

// Metrics computes the headline dashboard tiles.
func (a *Aggregator) Metrics(rows []models.EnrichedPatient, dataSource string) models.DashboardMetrics {
	var highRisk, activeAlerts int
	var sum float64
	for _, row := range rows {
		sum += row.RiskScore
		if row.RiskScore > HighRiskBound {
			highRisk++
		}
		if row.RiskScore > alertBound {
			activeAlerts++
		}
	}

	avg := 0.0
	if len(rows) > 0 {
		avg = sum / float64(len(rows))
	}

	a.mu.Lock()
	alertsTrend := a.rng.Intn(31) - 15
	riskTrend := a.rng.Intn(21) - 10
	a.mu.Unlock()

	return models.DashboardMetrics{
		TotalPatients:    len(rows) * a.demoMultiplier,
		ActiveAlerts:     activeAlerts,
		HighRiskPatients: highRisk,
		AverageRiskScore: avg,
		AlertsTrend:      alertsTrend,
		RiskTrend:        riskTrend,
		DataSource:       dataSource,
		LastUpdated:      time.Now().UTC(),
	}
}

// Distribution partitions the stored risk scores into the low/medium/high
// bands. Counts come from the actual prediction snapshots, not from fixed
// demo proportions.
func (a *Aggregator) Distribution(rows []models.EnrichedPatient, dataSource string) []models.DistributionBucket {
	var low, medium, high int
	for _, row := range rows {
		switch {
		case row.RiskScore < LowRiskBound:
			low++
		case row.RiskScore < HighRiskBound:
			medium++
		default:
			high++
		}
	}

	total := low + medium + high
	pct := func(count int) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(count) * 100 / float64(total)))
	}

	return []models.DistributionBucket{
		{Range: "0.0-0.3", Count: low * a.demoMultiplier, Percentage: pct(low), DataSource: dataSource},
		{Range: "0.3-0.7", Count: medium * a.demoMultiplier, Percentage: pct(medium), DataSource: dataSource},
		{Range: "0.7-1.0", Count: high * a.demoMultiplier, Percentage: pct(high), DataSource: dataSource},
	}
}

// Trends synthesizes a five-day chart series. The values are demo artifacts
// with no correctness contract.
func (a *Aggregator) Trends(dataSource string, now time.Time) []models.TrendPoint {
	a.mu.Lock()
	defer a.mu.Unlock()

	points := make([]models.TrendPoint, 0, 5)
	base := now.AddDate(0, 0, -4)
	for i := 0; i < 5; i++ {
		high := 40 + a.rng.Intn(41)
		medium := 100 + a.rng.Intn(101)
		low := 200 + a.rng.Intn(201)
		points = append(points, models.TrendPoint{
			Date:       base.AddDate(0, 0, i).Format("2006-01-02"),
			HighRisk:   high,
			MediumRisk: medium,
			LowRisk:    low,
			Total:      high + medium + low,
			DataSource: dataSource,
		})
	}
	return points
}

// FilterCohort applies the filter criteria; nil/zero criteria match all.
func FilterCohort(profiles []models.PatientProfile, filter models.CohortFilter) []models.PatientProfile {
	out := make([]models.PatientProfile, 0, len(profiles))
	for _, p := range profiles {
		if filter.AgeMin != nil && p.Age < *filter.AgeMin {
			continue
		}
		if filter.AgeMax != nil && p.Age > *filter.AgeMax {
			continue
		}
		if filter.Sex != "" && p.Sex != filter.Sex {
			continue
		}
		if len(filter.Medications) > 0 && !anyMedication(p.Medications, filter.Medications) {
			continue
		}
		if len(filter.StudyGroups) > 0 && !contains(filter.StudyGroups, p.StudyGroup) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Analyze summarizes a cohort from its fresh predictions. An empty cohort
// yields zero counts and a zero average.
func Analyze(cohort []models.PatientProfile, predictions []models.RiskPrediction) models.CohortAnalysis {
	analysis := models.CohortAnalysis{
		CohortSize:  len(cohort),
		Predictions: predictions,
	}
	if analysis.Predictions == nil {
		analysis.Predictions = []models.RiskPrediction{}
	}
	if len(predictions) == 0 {
		return analysis
	}

	min, max := predictions[0].RiskScore, predictions[0].RiskScore
	var sum float64
	for _, pred := range predictions {
		score := pred.RiskScore
		sum += score
		if score < min {
			min = score
		}
		if score > max {
			max = score
		}
		switch {
		case score < LowRiskBound:
			analysis.LowRiskCount++
		case score < HighRiskBound:
			analysis.MediumRiskCount++
		default:
			analysis.HighRiskCount++
		}
	}

	mean := sum / float64(len(predictions))
	var variance float64
	for _, pred := range predictions {
		diff := pred.RiskScore - mean
		variance += diff * diff
	}

	analysis.AverageRisk = mean
	analysis.RiskSpread = models.RiskSpread{
		Min:    min,
		Max:    max,
		StdDev: math.Sqrt(variance / float64(len(predictions))),
	}
	return analysis
}

func anyMedication(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
