package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

type HealthHandler struct {
	store  *patient.Store
	client *prediction.Client
}

func NewHealthHandler(store *patient.Store, client *prediction.Client) *HealthHandler {
	return &HealthHandler{store: store, client: client}
}

func (h *HealthHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":         "healthy",
		"kumoConfigured": h.client.Configured(),
		"patientsLoaded": h.store.Len(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
