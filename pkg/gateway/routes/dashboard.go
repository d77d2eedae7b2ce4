package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/analytics"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

type DashboardHandler struct {
	store      *patient.Store
	aggregator *analytics.Aggregator
	client     *prediction.Client
}

func NewDashboardHandler(store *patient.Store, agg *analytics.Aggregator, client *prediction.Client) *DashboardHandler {
	return &DashboardHandler{store: store, aggregator: agg, client: client}
}

func (h *DashboardHandler) Register(r *mux.Router) {
	r.HandleFunc("/dashboard/metrics", h.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/risk-trends", h.handleTrends).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/risk-distribution", h.handleDistribution).Methods(http.MethodGet)
}

func (h *DashboardHandler) dataSource() string {
	if h.client.Configured() {
		return "kumo"
	}
	return "mock"
}

func (h *DashboardHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.aggregator.Metrics(h.store.List(), h.dataSource()))
}

func (h *DashboardHandler) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"trends": h.aggregator.Trends(h.dataSource(), time.Now()),
	})
}

func (h *DashboardHandler) handleDistribution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"distribution": h.aggregator.Distribution(h.store.List(), h.dataSource()),
	})
}
