package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/alerts"
	"github.com/kumohax/platform/pkg/patient"
)

type RecentAlertsHandler struct {
	store *patient.Store
}

func NewRecentAlertsHandler(store *patient.Store) *RecentAlertsHandler {
	return &RecentAlertsHandler{store: store}
}

func (h *RecentAlertsHandler) Register(r *mux.Router) {
	r.HandleFunc("/alerts/recent", h.handleRecent).Methods(http.MethodGet)
}

func (h *RecentAlertsHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	recent := alerts.Recent(h.store.List(), time.Now().UTC())
	writeJSON(w, map[string]interface{}{
		"alerts": recent,
		"total":  len(recent),
	})
}
