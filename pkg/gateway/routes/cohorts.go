package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/analytics"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

type CohortHandler struct {
	store *patient.Store
	batch *prediction.BatchPredictor
}

func NewCohortHandler(store *patient.Store, batch *prediction.BatchPredictor) *CohortHandler {
	return &CohortHandler{store: store, batch: batch}
}

func (h *CohortHandler) Register(r *mux.Router) {
	r.HandleFunc("/cohorts/analyze", h.handleAnalyze).Methods(http.MethodPost)
}

type cohortRequest struct {
	Patients []models.PatientProfile `json:"patients"`
	Filters  *models.CohortFilter    `json:"filters"`
}

// handleAnalyze filters a cohort and aggregates fresh predictions over it.
// When the request carries no explicit patients, the stored population is
// the candidate set. An empty post-filter cohort is a valid zeroed result,
// not an error.
func (h *CohortHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req cohortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid cohort request", http.StatusBadRequest)
		return
	}

	candidates := req.Patients
	if len(candidates) == 0 {
		candidates = h.store.Profiles()
	}

	cohort := candidates
	if req.Filters != nil {
		cohort = analytics.FilterCohort(candidates, *req.Filters)
	}

	predictions := h.batch.Predict(r.Context(), cohort)
	writeJSON(w, analytics.Analyze(cohort, predictions))
}
