package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/ingest"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

type PredictHandler struct {
	store  *patient.Store
	client *prediction.Client
	batch  *prediction.BatchPredictor
}

func NewPredictHandler(store *patient.Store, client *prediction.Client, batch *prediction.BatchPredictor) *PredictHandler {
	return &PredictHandler{store: store, client: client, batch: batch}
}

func (h *PredictHandler) Register(r *mux.Router) {
	r.HandleFunc("/predict/patient-risk", h.handleSingle).Methods(http.MethodPost)
	r.HandleFunc("/predict/batch", h.handleBatch).Methods(http.MethodPost)
}

func (h *PredictHandler) handleSingle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var profile models.PatientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid patient payload", http.StatusBadRequest)
		return
	}
	if profile.ID == "" {
		http.Error(w, "patientId is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, h.client.Predict(r.Context(), profile))
}

type batchRequest struct {
	Patients []models.PatientProfile `json:"patients"`
}

// handleBatch predicts for the submitted patients, or recomputes the whole
// stored population when the request names none. Stored patients get their
// snapshots refreshed from the new predictions.
func (h *PredictHandler) handleBatch(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req batchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid batch request", http.StatusBadRequest)
			return
		}
	}

	profiles := req.Patients
	if len(profiles) == 0 {
		profiles = h.store.Profiles()
	}

	predictions := h.batch.Predict(r.Context(), profiles)

	refreshed := make([]models.EnrichedPatient, 0, len(profiles))
	for i, p := range profiles {
		if h.store.Has(p.ID) {
			refreshed = append(refreshed, ingest.Enrich(p, predictions[i]))
		}
	}
	if len(refreshed) > 0 {
		h.store.UpsertBatch(refreshed)
	}

	writeJSON(w, map[string]interface{}{
		"totalPatients":         len(profiles),
		"successfulPredictions": len(predictions),
		"predictions":           predictions,
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
	})
}
