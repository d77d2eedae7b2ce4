package prediction

import (
	"math/rand"
	"sync"
	"time"

	"github.com/kumohax/platform/pkg/common/models"
)

// Mock risk scores are drawn uniformly from [0.1, 0.8]. Probabilities attached
// to predicted events scale the risk score down by event rank.
const (
	mockRiskMin = 0.1
	mockRiskMax = 0.8

	mockModelVersion = "Mock-1.0"
)

var eventProbabilityScale = []float64{0.8, 0.6, 0.4}

// MockGenerator produces structurally valid predictions without any network
// call. It backs both the unconfigured path and the failure fallback of the
// Client. The random source is injected so tests can fix the seed.
type MockGenerator struct {
	catalog Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockGenerator(catalog Catalog, rng *rand.Rand) *MockGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockGenerator{catalog: catalog, rng: rng}
}

// Generate derives a fresh mock prediction for the patient. Safe for
// concurrent use.
func (g *MockGenerator) Generate(p models.PatientProfile) models.RiskPrediction {
	g.mu.Lock()
	risk := mockRiskMin + g.rng.Float64()*(mockRiskMax-mockRiskMin)
	confidence := 0.75 + g.rng.Float64()*0.20
	order := g.rng.Perm(len(g.catalog.Events))
	g.mu.Unlock()

	numEvents := 1
	switch {
	case risk >= 0.7:
		numEvents = 3
	case risk >= 0.3:
		numEvents = 2
	}
	if numEvents > len(order) {
		numEvents = len(order)
	}

	events := make([]models.PredictedEvent, 0, numEvents)
	for i := 0; i < numEvents; i++ {
		scale := eventProbabilityScale[i%len(eventProbabilityScale)]
		events = append(events, models.PredictedEvent{
			Label:       g.catalog.Events[order[i]],
			Probability: round3(risk * scale),
		})
	}

	factors := make([]models.RiskFactor, 0, len(g.catalog.RiskFactors))
	for _, fw := range g.catalog.RiskFactors {
		factors = append(factors, models.RiskFactor{
			Factor:     fw.Factor,
			Impact:     fw.Impact,
			Confidence: fw.Confidence,
		})
	}

	return models.RiskPrediction{
		PatientID:       p.ID,
		RiskScore:       round4(risk),
		PredictedEvents: events,
		RiskFactors:     factors,
		Confidence:      round3(confidence),
		ModelVersion:    mockModelVersion,
		DataSource:      "mock",
		LastUpdated:     time.Now().UTC(),
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}
