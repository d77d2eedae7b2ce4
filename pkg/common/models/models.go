package models

import "time"

// PatientProfile is the canonical patient record held by the in-memory store.
// Profiles are immutable once stored; updates replace the whole record.
type PatientProfile struct {
	ID            string             `json:"id"`
	Age           int                `json:"age"`
	Sex           string             `json:"sex"` // M or F
	Race          string             `json:"race"`
	Medications   []string           `json:"medications"`
	Comorbidities []string           `json:"comorbidities"`
	LabResults    map[string]float64 `json:"labResults,omitempty"`
	VitalSigns    map[string]float64 `json:"vitalSigns,omitempty"`
	StudyGroup    string             `json:"studyGroup,omitempty"`
}

// PredictedEvent is one adverse event the model flags for a patient.
type PredictedEvent struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability,omitempty"`
}

// RiskFactor carries the contribution of a single factor to a risk score.
type RiskFactor struct {
	Factor     string  `json:"factor"`
	Impact     float64 `json:"impact"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RiskPrediction is derived fresh from a PatientProfile on every call.
type RiskPrediction struct {
	PatientID       string           `json:"patientId"`
	RiskScore       float64          `json:"riskScore"`
	PredictedEvents []PredictedEvent `json:"predictedEvents"`
	RiskFactors     []RiskFactor     `json:"riskFactors"`
	Confidence      float64          `json:"confidence"`
	ModelVersion    string           `json:"modelVersion"`
	DataSource      string           `json:"dataSource"` // kumo or mock
	LastUpdated     time.Time        `json:"lastUpdated"`
}

// EnrichedPatient is the dashboard row shape: the stored profile plus a
// snapshot of its latest prediction.
type EnrichedPatient struct {
	PatientProfile
	RiskScore       float64          `json:"riskScore"`
	PredictedEvents []PredictedEvent `json:"predictedEvents"`
	Confidence      float64          `json:"confidence"`
	DataSource      string           `json:"dataSource"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}

// Alert severities, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// AlertEvent is an ephemeral alert pushed to stream subscribers. PatientID may
// reference a synthesized id that is not present in the store.
type AlertEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	RiskScore  float64   `json:"riskScore"`
	Condition  string    `json:"condition"`
	Severity   string    `json:"severity"`
	Confidence float64   `json:"confidence"`
	DataSource string    `json:"dataSource"`
	Timestamp  time.Time `json:"timestamp"`
}

// CohortFilter narrows the patient set for cohort analysis. Zero values mean
// the criterion is not applied.
type CohortFilter struct {
	AgeMin      *int     `json:"ageMin,omitempty"`
	AgeMax      *int     `json:"ageMax,omitempty"`
	Sex         string   `json:"sex,omitempty"`
	Medications []string `json:"medications,omitempty"`
	StudyGroups []string `json:"studyGroups,omitempty"`
}

// CohortAnalysis summarizes risk across a filtered patient subset.
type CohortAnalysis struct {
	CohortSize      int              `json:"cohortSize"`
	AverageRisk     float64          `json:"averageRisk"`
	HighRiskCount   int              `json:"highRiskCount"`
	MediumRiskCount int              `json:"mediumRiskCount"`
	LowRiskCount    int              `json:"lowRiskCount"`
	RiskSpread      RiskSpread       `json:"riskDistribution"`
	Predictions     []RiskPrediction `json:"predictions"`
}

// RiskSpread carries min/max/stddev of the cohort's risk scores.
type RiskSpread struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std"`
}

// DashboardMetrics is the headline tile payload. AlertsTrend and RiskTrend
// are synthetic presentation values, not derived from history.
type DashboardMetrics struct {
	TotalPatients    int       `json:"totalPatients"`
	ActiveAlerts     int       `json:"activeAlerts"`
	HighRiskPatients int       `json:"highRiskPatients"`
	AverageRiskScore float64   `json:"averageRiskScore"`
	AlertsTrend      int       `json:"alertsTrend"`
	RiskTrend        int       `json:"riskTrend"`
	DataSource       string    `json:"dataSource"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// TrendPoint is one day in the risk-trends chart series.
type TrendPoint struct {
	Date       string `json:"date"`
	HighRisk   int    `json:"highRisk"`
	MediumRisk int    `json:"mediumRisk"`
	LowRisk    int    `json:"lowRisk"`
	Total      int    `json:"total"`
	DataSource string `json:"dataSource"`
}

// DistributionBucket is one band of the risk-distribution chart.
type DistributionBucket struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	DataSource string `json:"dataSource"`
}

// ModelMetrics reports model quality figures for the dashboard.
type ModelMetrics struct {
	ModelType   string    `json:"modelType"`
	Version     string    `json:"version"`
	Accuracy    float64   `json:"accuracy"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	F1          float64   `json:"f1"`
	AUC         float64   `json:"auc"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// IngestResult is the upload-csv response body.
type IngestResult struct {
	Message     string           `json:"message"`
	TotalRows   int              `json:"totalRows"`
	Processed   int              `json:"processed"`
	Errors      []string         `json:"errors"`
	DataSource  string           `json:"dataSource"`
	Predictions []RiskPrediction `json:"predictions"`
}
