package prediction

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FactorWeight names a contributing risk factor and its fixed confidence and
// impact weights used on the mock path.
type FactorWeight struct {
	Factor     string  `yaml:"factor" json:"factor"`
	Impact     float64 `yaml:"impact" json:"impact"`
	Confidence float64 `yaml:"confidence" json:"confidence"`
}

// Catalog holds the adverse-event labels and risk-factor weights the mock
// generator draws from. It can be replaced wholesale from a YAML file.
type Catalog struct {
	Events      []string       `yaml:"events" json:"events"`
	RiskFactors []FactorWeight `yaml:"risk_factors" json:"risk_factors"`
}

// LoadCatalog reads a catalogue from path, falling back to the built-in
// defaults when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Events) == 0 {
		return Catalog{}, fmt.Errorf("event catalogue empty")
	}
	if len(cat.RiskFactors) == 0 {
		cat.RiskFactors = DefaultCatalog().RiskFactors
	}
	return cat, nil
}

func DefaultCatalog() Catalog {
	return Catalog{
		Events: []string{
			"Hepatotoxicity",
			"Cardiac Arrhythmia",
			"Renal Function Decline",
			"GI Bleeding",
			"Hypoglycemia",
			"Hyperkalemia",
			"Drug Interaction",
			"QT Prolongation",
			"Stevens-Johnson Syndrome",
			"Anaphylaxis",
		},
		RiskFactors: []FactorWeight{
			{Factor: "Age", Impact: 0.32, Confidence: 0.92},
			{Factor: "Polypharmacy", Impact: 0.24, Confidence: 0.88},
			{Factor: "Comorbidity Burden", Impact: 0.21, Confidence: 0.85},
			{Factor: "Drug Interactions", Impact: 0.15, Confidence: 0.80},
		},
	}
}
