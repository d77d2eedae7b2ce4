package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kumohax/platform/pkg/common/config"
	"github.com/kumohax/platform/pkg/common/httpclient"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/observability/metrics"
)

// ProviderError wraps any failure talking to the external prediction service.
// It never escapes Predict: the outer policy maps it to a mock prediction.
type ProviderError struct {
	Op     string
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("kumorfm %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("kumorfm %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Status is the payload of the kumorfm status endpoint.
type Status struct {
	Connected        bool      `json:"kumoConnected"`
	APIKeyConfigured bool      `json:"apiKeyConfigured"`
	BaseURL          string    `json:"baseUrl"`
	ModelType        string    `json:"modelType"`
	ModelVersion     string    `json:"modelVersion"`
	LastCheck        time.Time `json:"lastCheck"`
}

// Client calls the KumoRFM prediction service when credentials are present
// and falls back to mock generation otherwise. Credentials are runtime
// mutable (process lifetime only) via Configure.
type Client struct {
	mu           sync.RWMutex
	apiKey       string
	baseURL      string
	modelVersion string

	http *http.Client
	mock *MockGenerator
}

func NewClient(cfg *config.Config, mock *MockGenerator) *Client {
	return &Client{
		apiKey:       cfg.KumoAPIKey,
		baseURL:      cfg.KumoBaseURL,
		modelVersion: cfg.KumoModelVersion,
		http:         httpclient.New(cfg.KumoTimeout),
		mock:         mock,
	}
}

// Configure swaps the vendor credentials at runtime. An empty key disables
// the remote path entirely.
func (c *Client) Configure(apiKey, baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = apiKey
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

func (c *Client) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	modelType := "Mock Model"
	if c.apiKey != "" {
		modelType = "Kumo RFM"
	}
	return Status{
		Connected:        c.apiKey != "",
		APIKeyConfigured: c.apiKey != "",
		BaseURL:          c.baseURL,
		ModelType:        modelType,
		ModelVersion:     c.modelVersion,
		LastCheck:        time.Now().UTC(),
	}
}

// Predict returns a structurally valid prediction for the patient. Remote
// failures of any kind are downgraded to the mock path; the caller never
// observes an error, only the dataSource field distinguishes the two.
func (c *Client) Predict(ctx context.Context, p models.PatientProfile) models.RiskPrediction {
	if !c.Configured() {
		metrics.ObserveMockPrediction()
		return c.mock.Generate(p)
	}

	pred, err := c.predictRemote(ctx, p)
	if err != nil {
		logger.Log.WithError(err).WithField("patient_id", p.ID).Warn("remote prediction failed, falling back to mock")
		metrics.ObserveKumoFallback()
		return c.mock.Generate(p)
	}
	metrics.ObserveKumoPrediction()
	return pred
}

type remoteRequest struct {
	PatientID     string             `json:"patient_id"`
	Age           int                `json:"age"`
	Sex           string             `json:"sex"`
	Race          string             `json:"race"`
	Medications   []string           `json:"medications"`
	Comorbidities []string           `json:"comorbidities"`
	LabResults    map[string]float64 `json:"lab_results"`
	VitalSigns    map[string]float64 `json:"vital_signs"`
	ModelVersion  string             `json:"model_version"`
}

type remoteResponse struct {
	PatientID       string   `json:"patient_id"`
	RiskScore       float64  `json:"risk_score"`
	PredictedEvents []string `json:"predicted_events"`
	RiskFactors     []struct {
		Factor     string  `json:"factor"`
		Impact     float64 `json:"impact"`
		Confidence float64 `json:"confidence"`
	} `json:"risk_factors"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

func (c *Client) predictRemote(ctx context.Context, p models.PatientProfile) (models.RiskPrediction, error) {
	c.mu.RLock()
	apiKey, baseURL, modelVersion := c.apiKey, c.baseURL, c.modelVersion
	c.mu.RUnlock()

	body, err := json.Marshal(remoteRequest{
		PatientID:     p.ID,
		Age:           p.Age,
		Sex:           p.Sex,
		Race:          p.Race,
		Medications:   p.Medications,
		Comorbidities: p.Comorbidities,
		LabResults:    p.LabResults,
		VitalSigns:    p.VitalSigns,
		ModelVersion:  modelVersion,
	})
	if err != nil {
		return models.RiskPrediction{}, &ProviderError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/predict/patient-risk", bytes.NewReader(body))
	if err != nil {
		return models.RiskPrediction{}, &ProviderError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.RiskPrediction{}, &ProviderError{Op: "call", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return models.RiskPrediction{}, &ProviderError{Op: "call", Status: resp.StatusCode}
	}

	var remote remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return models.RiskPrediction{}, &ProviderError{Op: "decode", Err: err}
	}

	events := make([]models.PredictedEvent, 0, len(remote.PredictedEvents))
	for _, label := range remote.PredictedEvents {
		events = append(events, models.PredictedEvent{Label: label})
	}
	factors := make([]models.RiskFactor, 0, len(remote.RiskFactors))
	for _, f := range remote.RiskFactors {
		factors = append(factors, models.RiskFactor{Factor: f.Factor, Impact: f.Impact, Confidence: f.Confidence})
	}

	version := remote.ModelVersion
	if version == "" {
		version = modelVersion
	}

	return models.RiskPrediction{
		PatientID:       p.ID,
		RiskScore:       clamp01(remote.RiskScore),
		PredictedEvents: events,
		RiskFactors:     factors,
		Confidence:      remote.Confidence,
		ModelVersion:    version,
		DataSource:      "kumo",
		LastUpdated:     time.Now().UTC(),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
