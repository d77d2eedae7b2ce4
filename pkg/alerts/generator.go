package alerts

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/observability/metrics"
	"github.com/kumohax/platform/pkg/patient"
)

var (
	kumoConditions = []string{"Hepatotoxicity", "Cardiac Arrhythmia", "Acute Kidney Injury", "Drug-Drug Interaction"}
	mockConditions = []string{"Hepatotoxicity", "Cardiac Risk", "Renal Decline", "Drug Interaction"}

	kumoSeverities = []string{models.SeverityCritical, models.SeverityHigh}
	mockSeverities = []string{models.SeverityHigh, models.SeverityCritical, models.SeverityMedium}
)

// Publisher is the optional fan-out sink for generated alerts. When set, the
// generator hands alerts to it instead of broadcasting locally; the sink is
// then responsible for delivering them back via Broadcast.
type Publisher interface {
	Publish(ctx context.Context, alert models.AlertEvent) error
}

// Generator synthesizes alert events on a pseudo-random cadence and fans
// them out to stream subscribers. Subscribers are independent: a slow or
// disconnected subscriber never blocks the loop or its peers.
type Generator struct {
	store     *patient.Store
	connected func() bool
	minWait   time.Duration
	maxWait   time.Duration
	publisher Publisher

	mu          sync.Mutex
	rng         *rand.Rand
	subscribers map[chan models.AlertEvent]struct{}
}

func NewGenerator(store *patient.Store, connected func() bool, minWait, maxWait time.Duration, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if minWait <= 0 {
		minWait = 10 * time.Second
	}
	if maxWait < minWait {
		maxWait = minWait
	}
	return &Generator{
		store:       store,
		connected:   connected,
		minWait:     minWait,
		maxWait:     maxWait,
		rng:         rng,
		subscribers: make(map[chan models.AlertEvent]struct{}),
	}
}

// SetPublisher installs the fan-out sink. Must be called before Run.
func (g *Generator) SetPublisher(p Publisher) {
	g.publisher = p
}

// Subscribe registers a listener. The returned cancel function tears the
// subscription down; it is safe to call more than once.
func (g *Generator) Subscribe() (<-chan models.AlertEvent, func()) {
	ch := make(chan models.AlertEvent, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	g.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subscribers, ch)
			g.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount reports the number of attached listeners.
func (g *Generator) SubscriberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers)
}

// Broadcast delivers an alert to every subscriber. Full subscriber buffers
// drop the event rather than blocking.
func (g *Generator) Broadcast(alert models.AlertEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.subscribers {
		select {
		case ch <- alert:
		default:
		}
	}
}

// Run emits synthetic alerts until the context is cancelled.
func (g *Generator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(g.nextWait()):
		}

		alert := g.Synthesize()
		metrics.ObserveAlertEmitted()
		if g.publisher != nil {
			if err := g.publisher.Publish(ctx, alert); err != nil {
				logger.Log.WithError(err).Warn("alert publish failed, broadcasting locally")
				g.Broadcast(alert)
			}
			continue
		}
		g.Broadcast(alert)
	}
}

func (g *Generator) nextWait() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	spread := g.maxWait - g.minWait
	if spread <= 0 {
		return g.minWait
	}
	return g.minWait + time.Duration(g.rng.Int63n(int64(spread)))
}

// Synthesize builds one alert event. The patient id references a stored
// patient when any exist, otherwise an arbitrary synthesized id; no
// referential integrity is promised either way.
func (g *Generator) Synthesize() models.AlertEvent {
	conditions, severities := mockConditions, mockSeverities
	riskBase, source := 0.6, "mock"
	confLo, confHi := 0.70, 0.85
	if g.connected != nil && g.connected() {
		conditions, severities = kumoConditions, kumoSeverities
		riskBase, source = 0.7, "kumo"
		confLo, confHi = 0.85, 0.96
	}

	patientID := ""
	if rows := g.store.List(); len(rows) > 0 {
		g.mu.Lock()
		patientID = rows[g.rng.Intn(len(rows))].ID
		g.mu.Unlock()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if patientID == "" {
		patientID = fmt.Sprintf("P-%d", 1000+g.rng.Intn(9000))
	}

	return models.AlertEvent{
		Type:       "kumorfm_alert",
		ID:         "ALT-" + uuid.New().String(),
		PatientID:  patientID,
		RiskScore:  riskBase + g.rng.Float64()*(0.95-riskBase),
		Condition:  conditions[g.rng.Intn(len(conditions))],
		Severity:   severities[g.rng.Intn(len(severities))],
		Confidence: confLo + g.rng.Float64()*(confHi-confLo),
		DataSource: source,
		Timestamp:  time.Now().UTC(),
	}
}
