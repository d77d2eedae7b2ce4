package prediction

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.Events) != 10 {
		t.Fatalf("expected 10 default events, got %d", len(cat.Events))
	}
	if len(cat.RiskFactors) != 4 {
		t.Fatalf("expected 4 default risk factors, got %d", len(cat.RiskFactors))
	}
}

func TestLoadCatalogEmptyPathUsesDefault(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Events) == 0 {
		t.Fatal("expected default events")
	}
}

func TestLoadCatalogFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
events:
  - Hepatotoxicity
  - Anaphylaxis
risk_factors:
  - factor: Age
    impact: 0.4
    confidence: 0.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(cat.Events))
	}
	if cat.RiskFactors[0].Factor != "Age" || cat.RiskFactors[0].Impact != 0.4 {
		t.Fatalf("risk factor not parsed: %+v", cat.RiskFactors[0])
	}
}

func TestLoadCatalogRejectsEmptyEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("events: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for empty event list")
	}
}

func TestLoadCatalogMissingFileFallsBack(t *testing.T) {
	cat, err := LoadCatalog("/nonexistent/catalog.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(cat.Events) == 0 {
		t.Fatal("expected default catalogue alongside the error")
	}
}
