package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/kumohax/platform/pkg/common/kafka"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/observability/metrics"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

// Service runs the CSV-to-prediction pipeline: parse rows, batch-predict,
// store enriched records, optionally announce the batch on Kafka.
type Service struct {
	store    *patient.Store
	client   *prediction.Client
	batch    *prediction.BatchPredictor
	producer *kafka.Producer
}

func NewService(store *patient.Store, client *prediction.Client, batch *prediction.BatchPredictor, producer *kafka.Producer) *Service {
	return &Service{store: store, client: client, batch: batch, producer: producer}
}

// IngestCSV processes an uploaded CSV stream. Row-level failures are
// collected, not fatal; processed + len(errors) equals the number of data
// rows.
func (s *Service) IngestCSV(ctx context.Context, r io.Reader) (*models.IngestResult, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, err
	}

	predictions := s.batch.Predict(ctx, parsed.Profiles)

	rows := make([]models.EnrichedPatient, len(parsed.Profiles))
	for i, profile := range parsed.Profiles {
		rows[i] = Enrich(profile, predictions[i])
	}
	s.store.UpsertBatch(rows)
	metrics.ObserveIngestion(len(rows), len(parsed.Errors))

	if s.producer != nil && len(rows) > 0 {
		if err := s.producer.PublishEvent(ctx, "patient.ingested", "csv-upload", map[string]interface{}{
			"processed":  len(rows),
			"total_rows": parsed.TotalRows,
			"errors":     len(parsed.Errors),
		}); err != nil {
			logger.Log.WithError(err).Warn("failed to publish ingestion event")
		}
	}

	errs := parsed.Errors
	if errs == nil {
		errs = []string{}
	}

	logger.Log.WithFields(map[string]interface{}{
		"total_rows": parsed.TotalRows,
		"processed":  len(rows),
		"errors":     len(errs),
	}).Info("CSV upload processed")

	return &models.IngestResult{
		Message:     fmt.Sprintf("Successfully processed %d patients", len(rows)),
		TotalRows:   parsed.TotalRows,
		Processed:   len(rows),
		Errors:      errs,
		DataSource:  s.dataSource(),
		Predictions: predictions,
	}, nil
}

// CreatePatient stores a single patient, minting an id when the given one is
// blank or already taken, and returns the stored row with its prediction.
func (s *Service) CreatePatient(ctx context.Context, profile models.PatientProfile) (models.EnrichedPatient, models.RiskPrediction) {
	if profile.ID == "" || s.store.Has(profile.ID) {
		profile.ID = s.store.NextPatientID()
	}
	if profile.Race == "" {
		profile.Race = "Unknown"
	}

	pred := s.client.Predict(ctx, profile)
	row := Enrich(profile, pred)
	s.store.Upsert(row)

	logger.Log.WithFields(map[string]interface{}{
		"patient_id": profile.ID,
		"risk_score": pred.RiskScore,
	}).Info("patient created")

	return row, pred
}

// Seed loads the demo patients at process start.
func (s *Service) Seed(ctx context.Context) {
	profiles := patient.SeedProfiles()
	predictions := s.batch.Predict(ctx, profiles)
	rows := make([]models.EnrichedPatient, len(profiles))
	for i, profile := range profiles {
		rows[i] = Enrich(profile, predictions[i])
	}
	s.store.UpsertBatch(rows)
}

func (s *Service) dataSource() string {
	if s.client.Configured() {
		return "kumo"
	}
	return "mock"
}

// Enrich joins a profile with its prediction into the dashboard row shape.
func Enrich(profile models.PatientProfile, pred models.RiskPrediction) models.EnrichedPatient {
	return models.EnrichedPatient{
		PatientProfile:  profile,
		RiskScore:       pred.RiskScore,
		PredictedEvents: pred.PredictedEvents,
		Confidence:      pred.Confidence,
		DataSource:      pred.DataSource,
		LastUpdated:     pred.LastUpdated,
	}
}
