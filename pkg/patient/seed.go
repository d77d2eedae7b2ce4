package patient

import "github.com/kumohax/platform/pkg/common/models"

// SeedProfiles returns the demo patients loaded at process start so the
// dashboard has data before any CSV upload.
func SeedProfiles() []models.PatientProfile {
	return []models.PatientProfile{
		{
			ID:            "P-001",
			Age:           72,
			Sex:           "F",
			Race:          "White",
			Medications:   []string{"warfarin", "metoprolol", "furosemide"},
			Comorbidities: []string{"atrial_fibrillation", "heart_failure"},
			LabResults:    map[string]float64{"creatinine": 1.4, "alt": 42, "ast": 38},
			VitalSigns:    map[string]float64{"bp_systolic": 142, "bp_diastolic": 86, "heart_rate": 78},
		},
		{
			ID:            "P-002",
			Age:           28,
			Sex:           "M",
			Race:          "Asian",
			Medications:   []string{"lisinopril"},
			Comorbidities: []string{"hypertension"},
			LabResults:    map[string]float64{"creatinine": 0.9},
			VitalSigns:    map[string]float64{"bp_systolic": 128, "bp_diastolic": 82, "heart_rate": 66},
		},
		{
			ID:            "P-003",
			Age:           55,
			Sex:           "M",
			Race:          "Hispanic",
			Medications:   []string{"metformin", "atorvastatin"},
			Comorbidities: []string{"diabetes", "hyperlipidemia"},
			LabResults:    map[string]float64{"creatinine": 1.1, "alt": 35, "hemoglobin": 14.2},
			VitalSigns:    map[string]float64{"bp_systolic": 134, "bp_diastolic": 84, "heart_rate": 72},
		},
	}
}
