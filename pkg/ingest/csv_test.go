package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSingleRowScenario(t *testing.T) {
	csvData := `patient_id,age,sex,race,medications,comorbidities
P-001,65,M,,"metformin,lisinopril",diabetes
`
	result, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalRows != 1 || len(result.Profiles) != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	p := result.Profiles[0]
	if p.ID != "P-001" || p.Age != 65 || p.Sex != "M" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.Race != "Unknown" {
		t.Fatalf("expected Unknown race default, got %q", p.Race)
	}
	if len(p.Medications) != 2 || p.Medications[0] != "metformin" || p.Medications[1] != "lisinopril" {
		t.Fatalf("medications not order-preserved and trimmed: %v", p.Medications)
	}
	if len(p.Comorbidities) != 1 || p.Comorbidities[0] != "diabetes" {
		t.Fatalf("unexpected comorbidities: %v", p.Comorbidities)
	}
}

func TestParseMedicationsRoundTrip(t *testing.T) {
	csvData := `patient_id,age,sex,medications,comorbidities
P-010,50,F," a, b ,c ",""
`
	result, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meds := result.Profiles[0].Medications
	if len(meds) != 3 || meds[0] != "a" || meds[1] != "b" || meds[2] != "c" {
		t.Fatalf(`expected ["a","b","c"], got %v`, meds)
	}
}

func TestParseMissingCellsOmitLabKeys(t *testing.T) {
	csvData := `patient_id,age,sex,medications,comorbidities,creatinine,alt,bp_systolic
P-020,70,F,warfarin,afib,1.3,,150
`
	result, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := result.Profiles[0]
	if v, ok := p.LabResults["creatinine"]; !ok || v != 1.3 {
		t.Fatalf("creatinine not parsed: %v", p.LabResults)
	}
	if _, ok := p.LabResults["alt"]; ok {
		t.Fatal("empty alt cell must be an absent key, not zero")
	}
	if v, ok := p.VitalSigns["bp_systolic"]; !ok || v != 150 {
		t.Fatalf("bp_systolic not parsed: %v", p.VitalSigns)
	}
	if _, ok := p.VitalSigns["heart_rate"]; ok {
		t.Fatal("missing heart_rate column must be an absent key")
	}
}

func TestParseGeneratesIDForBlankCell(t *testing.T) {
	csvData := `patient_id,age,sex,medications,comorbidities
,45,M,aspirin,none
`
	result, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := result.Profiles[0].ID
	if len(id) != 8 {
		t.Fatalf("expected 8-character generated id, got %q", id)
	}
}

func TestParseCollectsRowErrorsWithoutAborting(t *testing.T) {
	csvData := `patient_id,age,sex,medications,comorbidities
P-001,sixty,M,aspirin,none
P-002,70,F,warfarin,afib
P-003,55,M,metformin,diabetes
`
	result, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalRows != 3 {
		t.Fatalf("expected 3 data rows, got %d", result.TotalRows)
	}
	if len(result.Profiles)+len(result.Errors) != result.TotalRows {
		t.Fatalf("processed %d + errors %d != rows %d", len(result.Profiles), len(result.Errors), result.TotalRows)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "age") {
		t.Fatalf("expected one age error, got %v", result.Errors)
	}
	if result.Profiles[0].ID != "P-002" || result.Profiles[1].ID != "P-003" {
		t.Fatalf("later rows not processed: %+v", result.Profiles)
	}
}

func TestParseEmptyAndHeaderOnly(t *testing.T) {
	for _, input := range []string{"", "patient_id,age,sex,medications,comorbidities\n"} {
		result, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", input, err)
		}
		if result.TotalRows != 0 || len(result.Profiles) != 0 || len(result.Errors) != 0 {
			t.Fatalf("input %q: expected zero rows and errors, got %+v", input, result)
		}
	}
}

func TestParseRejectsMissingRequiredColumns(t *testing.T) {
	csvData := "patient_id,age\nP-001,65\n"
	_, err := Parse(strings.NewReader(csvData))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestParseSampleCSV(t *testing.T) {
	result, err := Parse(strings.NewReader(SampleCSV))
	if err != nil {
		t.Fatalf("sample template must parse: %v", err)
	}
	if len(result.Profiles) != 3 || len(result.Errors) != 0 {
		t.Fatalf("sample template: expected 3 clean rows, got %+v", result)
	}
}
