package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kumohax/platform/pkg/common/models"
)

var requiredColumns = []string{"patient_id", "age", "sex", "medications", "comorbidities"}

var (
	labColumns   = []string{"creatinine", "alt", "ast", "hemoglobin"}
	vitalColumns = []string{"bp_systolic", "bp_diastolic", "heart_rate"}
)

// ErrMissingColumns indicates the header row lacks required columns; the
// whole upload is rejected rather than producing per-row errors.
var ErrMissingColumns = errors.New("missing required columns")

// ParseResult carries everything the parse pass produced. Profiles holds the
// rows that parsed cleanly; Errors holds one message per malformed row.
// len(Profiles) + len(Errors) == TotalRows always.
type ParseResult struct {
	Profiles  []models.PatientProfile
	Errors    []string
	TotalRows int
}

// Parse reads tabular patient data with a header row. Malformed rows are
// collected as errors and never abort the remaining rows. An empty or
// header-only input parses to zero rows and zero errors.
func Parse(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return ParseResult{}, nil
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ParseResult{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var result ParseResult
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.TotalRows++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if blankRow(record) {
			continue
		}
		result.TotalRows++

		profile, err := parseRow(cols, record)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Profiles = append(result.Profiles, profile)
	}

	return result, nil
}

func parseRow(cols map[string]int, record []string) (models.PatientProfile, error) {
	id := cell(cols, record, "patient_id")
	if id == "" {
		id = generateID()
	}

	ageRaw := cell(cols, record, "age")
	age, err := strconv.Atoi(ageRaw)
	if err != nil {
		return models.PatientProfile{}, fmt.Errorf("invalid age %q", ageRaw)
	}

	race := cell(cols, record, "race")
	if race == "" {
		race = "Unknown"
	}

	profile := models.PatientProfile{
		ID:            id,
		Age:           age,
		Sex:           cell(cols, record, "sex"),
		Race:          race,
		Medications:   splitList(cell(cols, record, "medications")),
		Comorbidities: splitList(cell(cols, record, "comorbidities")),
		StudyGroup:    cell(cols, record, "study_group"),
	}

	for _, name := range labColumns {
		raw := cell(cols, record, name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.PatientProfile{}, fmt.Errorf("invalid %s %q", name, raw)
		}
		if profile.LabResults == nil {
			profile.LabResults = make(map[string]float64)
		}
		profile.LabResults[name] = value
	}

	for _, name := range vitalColumns {
		raw := cell(cols, record, name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.PatientProfile{}, fmt.Errorf("invalid %s %q", name, raw)
		}
		if profile.VitalSigns == nil {
			profile.VitalSigns = make(map[string]float64)
		}
		profile.VitalSigns[name] = value
	}

	return profile, nil
}

func cell(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitList splits a comma-separated cell into trimmed tokens, preserving
// source order and duplicates.
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func blankRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func generateID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
