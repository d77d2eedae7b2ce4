package alerts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/patient"
)

func init() {
	logger.Init()
}

func newTestGenerator(connected bool, seed int64) (*Generator, *patient.Store) {
	store := patient.NewStore()
	g := NewGenerator(store, func() bool { return connected }, 10*time.Millisecond, 20*time.Millisecond,
		rand.New(rand.NewSource(seed)))
	return g, store
}

func TestSynthesizeMockRanges(t *testing.T) {
	g, _ := newTestGenerator(false, 1)
	for i := 0; i < 100; i++ {
		a := g.Synthesize()
		if a.Type != "kumorfm_alert" {
			t.Fatalf("type = %q", a.Type)
		}
		if a.RiskScore < 0.6 || a.RiskScore > 0.95 {
			t.Fatalf("risk score %v out of range", a.RiskScore)
		}
		if a.DataSource != "mock" {
			t.Fatalf("data source = %q", a.DataSource)
		}
		if a.PatientID == "" {
			t.Fatal("empty patient id")
		}
	}
}

func TestSynthesizeConnectedUsesStoredPatients(t *testing.T) {
	g, store := newTestGenerator(true, 2)
	for _, p := range patient.SeedProfiles() {
		store.Upsert(models.EnrichedPatient{PatientProfile: p})
	}

	ids := map[string]bool{}
	for _, p := range patient.SeedProfiles() {
		ids[p.ID] = true
	}
	for i := 0; i < 50; i++ {
		a := g.Synthesize()
		if !ids[a.PatientID] {
			t.Fatalf("patient id %q not from store", a.PatientID)
		}
		if a.DataSource != "kumo" {
			t.Fatalf("data source = %q", a.DataSource)
		}
		if a.RiskScore < 0.7 {
			t.Fatalf("connected risk score %v below 0.7", a.RiskScore)
		}
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	g, _ := newTestGenerator(false, 3)

	ch1, cancel1 := g.Subscribe()
	ch2, cancel2 := g.Subscribe()
	defer cancel1()
	defer cancel2()

	alert := g.Synthesize()
	g.Broadcast(alert)

	for _, ch := range []<-chan models.AlertEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.ID != alert.ID {
				t.Fatalf("got alert %q, want %q", got.ID, alert.ID)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive alert")
		}
	}
}

func TestCancelledSubscriberDoesNotAffectPeers(t *testing.T) {
	g, _ := newTestGenerator(false, 4)

	_, cancel1 := g.Subscribe()
	ch2, cancel2 := g.Subscribe()
	defer cancel2()

	cancel1()
	cancel1() // idempotent

	if n := g.SubscriberCount(); n != 1 {
		t.Fatalf("subscriber count = %d, want 1", n)
	}

	alert := g.Synthesize()
	g.Broadcast(alert)

	select {
	case got := <-ch2:
		if got.ID != alert.ID {
			t.Fatalf("got alert %q, want %q", got.ID, alert.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive alert")
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	g, _ := newTestGenerator(false, 5)

	_, cancel := g.Subscribe()
	defer cancel()

	// Never reading; broadcasts must not block once the buffer fills.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			g.Broadcast(g.Synthesize())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full subscriber")
	}
}
