package prediction

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kumohax/platform/pkg/common/models"
)

type stubPredictor struct {
	calls    int64
	inflight int64
	maxSeen  int64
	panicOn  string
	delay    time.Duration
}

func (s *stubPredictor) Predict(ctx context.Context, p models.PatientProfile) models.RiskPrediction {
	cur := atomic.AddInt64(&s.inflight, 1)
	for {
		max := atomic.LoadInt64(&s.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt64(&s.maxSeen, max, cur) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	atomic.AddInt64(&s.inflight, -1)
	atomic.AddInt64(&s.calls, 1)

	if p.ID == s.panicOn {
		panic("stub failure")
	}
	return models.RiskPrediction{PatientID: p.ID, RiskScore: 0.42, DataSource: "stub"}
}

func batchPatients(n int) []models.PatientProfile {
	out := make([]models.PatientProfile, n)
	for i := range out {
		out[i] = models.PatientProfile{ID: fmt.Sprintf("P-%03d", i), Age: 50}
	}
	return out
}

func newTestBatch(stub *stubPredictor) *BatchPredictor {
	mock := NewMockGenerator(DefaultCatalog(), rand.New(rand.NewSource(3)))
	b := NewBatchPredictor(stub, mock)
	b.wait = 5 * time.Millisecond
	return b
}

func TestBatchPredictLengthAndIdentity(t *testing.T) {
	stub := &stubPredictor{}
	b := newTestBatch(stub)

	patients := batchPatients(13)
	preds := b.Predict(context.Background(), patients)

	if len(preds) != len(patients) {
		t.Fatalf("expected %d predictions, got %d", len(patients), len(preds))
	}
	for i, pred := range preds {
		if pred.PatientID != patients[i].ID {
			t.Fatalf("index %d: expected id %s, got %s", i, patients[i].ID, pred.PatientID)
		}
		if pred.RiskScore < 0 || pred.RiskScore > 1 {
			t.Fatalf("risk score out of range: %f", pred.RiskScore)
		}
	}
	if got := atomic.LoadInt64(&stub.calls); got != 13 {
		t.Fatalf("expected 13 predictor calls, got %d", got)
	}
}

func TestBatchPredictRespectsChunkSize(t *testing.T) {
	stub := &stubPredictor{delay: 20 * time.Millisecond}
	b := newTestBatch(stub)

	b.Predict(context.Background(), batchPatients(12))

	if max := atomic.LoadInt64(&stub.maxSeen); max > defaultChunkSize {
		t.Fatalf("saw %d concurrent predictions, chunk size is %d", max, defaultChunkSize)
	}
}

func TestBatchPredictSubstitutesMockOnPanic(t *testing.T) {
	stub := &stubPredictor{panicOn: "P-002"}
	b := newTestBatch(stub)

	patients := batchPatients(5)
	preds := b.Predict(context.Background(), patients)

	if len(preds) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(preds))
	}
	if preds[2].PatientID != "P-002" {
		t.Fatalf("substituted prediction lost its patient id: %s", preds[2].PatientID)
	}
	if preds[2].DataSource != "mock" {
		t.Fatalf("expected mock substitution, got %s", preds[2].DataSource)
	}
	for i := range preds {
		if i != 2 && preds[i].DataSource != "stub" {
			t.Fatalf("index %d unexpectedly substituted", i)
		}
	}
}

func TestBatchPredictEmptyInput(t *testing.T) {
	b := newTestBatch(&stubPredictor{})
	preds := b.Predict(context.Background(), nil)
	if len(preds) != 0 {
		t.Fatalf("expected empty output, got %d", len(preds))
	}
}

func TestBatchPredictCancelledContextStillFillsOutput(t *testing.T) {
	stub := &stubPredictor{}
	b := newTestBatch(stub)
	b.wait = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	patients := batchPatients(11)
	preds := b.Predict(ctx, patients)

	if len(preds) != len(patients) {
		t.Fatalf("expected %d predictions after cancellation, got %d", len(patients), len(preds))
	}
	for i, pred := range preds {
		if pred.PatientID != patients[i].ID {
			t.Fatalf("index %d missing prediction after cancellation", i)
		}
	}
}
