package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
)

// Chunked fan-out keeps the vendor from being hammered: every chunk completes
// before the next starts, with a pause in between.
const (
	defaultChunkSize      = 5
	defaultInterChunkWait = 200 * time.Millisecond
)

// Predictor is the single-patient prediction contract the batch layer fans
// out over.
type Predictor interface {
	Predict(ctx context.Context, p models.PatientProfile) models.RiskPrediction
}

// BatchPredictor throttles prediction across many patients. Output always has
// the same length and order-correspondence as the input; a prediction that
// panics is substituted with a mock rather than aborting the batch.
type BatchPredictor struct {
	client    Predictor
	mock      *MockGenerator
	chunkSize int
	wait      time.Duration
}

func NewBatchPredictor(client Predictor, mock *MockGenerator) *BatchPredictor {
	return &BatchPredictor{
		client:    client,
		mock:      mock,
		chunkSize: defaultChunkSize,
		wait:      defaultInterChunkWait,
	}
}

// Predict runs the batch. Chunk N+1 never starts before chunk N fully
// completes. No wait follows the final chunk.
func (b *BatchPredictor) Predict(ctx context.Context, patients []models.PatientProfile) []models.RiskPrediction {
	results := make([]models.RiskPrediction, len(patients))

	for start := 0; start < len(patients); start += b.chunkSize {
		end := start + b.chunkSize
		if end > len(patients) {
			end = len(patients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = b.predictOne(ctx, patients[idx])
			}(i)
		}
		wg.Wait()

		if end < len(patients) {
			select {
			case <-time.After(b.wait):
			case <-ctx.Done():
				// Abandoned batch: fill the remainder with mocks so the
				// output length guarantee still holds.
				for i := end; i < len(patients); i++ {
					results[i] = b.mock.Generate(patients[i])
				}
				return results
			}
		}
	}

	return results
}

func (b *BatchPredictor) predictOne(ctx context.Context, p models.PatientProfile) (pred models.RiskPrediction) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(map[string]interface{}{
				"patient_id": p.ID,
				"panic":      r,
			}).Error("prediction panicked, substituting mock")
			pred = b.mock.Generate(p)
		}
	}()
	return b.client.Predict(ctx, p)
}
