package alerts

import (
	"fmt"
	"testing"
	"time"

	"github.com/kumohax/platform/pkg/common/models"
)

func enriched(id string, score float64) models.EnrichedPatient {
	return models.EnrichedPatient{
		PatientProfile: models.PatientProfile{ID: id, Age: 60, Sex: "F"},
		RiskScore:      score,
		PredictedEvents: []models.PredictedEvent{
			{Label: "Hepatotoxicity", Probability: score * 0.8},
		},
		Confidence: 0.9,
		DataSource: "mock",
	}
}

func TestRecentOrdersByRiskDescending(t *testing.T) {
	rows := []models.EnrichedPatient{
		enriched("P-001", 0.65),
		enriched("P-002", 0.91),
		enriched("P-003", 0.72),
	}
	got := Recent(rows, time.Now())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantOrder := []string{"P-002", "P-003", "P-001"}
	for i, id := range wantOrder {
		if got[i].PatientID != id {
			t.Fatalf("position %d: got %q, want %q", i, got[i].PatientID, id)
		}
	}
	if got[0].Severity != models.SeverityCritical {
		t.Fatalf("0.91 severity = %q", got[0].Severity)
	}
	if got[1].Severity != models.SeverityHigh {
		t.Fatalf("0.72 severity = %q", got[1].Severity)
	}
	if got[2].Severity != models.SeverityMedium {
		t.Fatalf("0.65 severity = %q", got[2].Severity)
	}
}

func TestRecentBackfillsWithMediumRisk(t *testing.T) {
	rows := []models.EnrichedPatient{
		enriched("P-001", 0.85),
		enriched("P-002", 0.45),
		enriched("P-003", 0.15),
	}
	got := Recent(rows, time.Now())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (0.15 excluded)", len(got))
	}
	if got[0].PatientID != "P-001" || got[1].PatientID != "P-002" {
		t.Fatalf("unexpected order: %q, %q", got[0].PatientID, got[1].PatientID)
	}
}

func TestRecentCapsAtLimit(t *testing.T) {
	var rows []models.EnrichedPatient
	for i := 0; i < 20; i++ {
		rows = append(rows, enriched(fmt.Sprintf("P-%03d", i+1), 0.61+float64(i)*0.01))
	}
	got := Recent(rows, time.Now())
	if len(got) != recentLimit {
		t.Fatalf("len = %d, want %d", len(got), recentLimit)
	}
}

func TestRecentEmptyPopulation(t *testing.T) {
	got := Recent(nil, time.Now())
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestRecentTimestampsRecede(t *testing.T) {
	now := time.Now()
	rows := []models.EnrichedPatient{
		enriched("P-001", 0.9),
		enriched("P-002", 0.8),
	}
	got := Recent(rows, now)
	if !got[0].Timestamp.After(got[1].Timestamp) {
		t.Fatal("timestamps should recede with position")
	}
	if !got[0].Timestamp.Before(now) {
		t.Fatal("derived timestamp should be in the past")
	}
}

func TestRecentConditionFromTopPredictedEvent(t *testing.T) {
	p := enriched("P-001", 0.9)
	got := Recent([]models.EnrichedPatient{p}, time.Now())
	if got[0].Condition != "Hepatotoxicity" {
		t.Fatalf("condition = %q", got[0].Condition)
	}

	p.PredictedEvents = nil
	got = Recent([]models.EnrichedPatient{p}, time.Now())
	if got[0].Condition != "Elevated Risk Profile" {
		t.Fatalf("fallback condition = %q", got[0].Condition)
	}
}
