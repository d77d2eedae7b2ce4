package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/common/models"
	"github.com/kumohax/platform/pkg/ingest"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

type PatientsHandler struct {
	store   *patient.Store
	service *ingest.Service
	client  *prediction.Client
}

func NewPatientsHandler(store *patient.Store, service *ingest.Service, client *prediction.Client) *PatientsHandler {
	return &PatientsHandler{store: store, service: service, client: client}
}

func (h *PatientsHandler) Register(r *mux.Router) {
	r.HandleFunc("/patients", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/patients", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/patients/{id}/risk", h.handleRisk).Methods(http.MethodGet)
}

// handleList returns enriched patients, optionally narrowed to a study
// group. Group names follow the "<medication>-group" convention; "all" or
// an empty value returns everyone.
func (h *PatientsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	rows := h.store.List()

	group := strings.ToLower(r.URL.Query().Get("group"))
	if group != "" && group != "all" {
		medication := strings.TrimSuffix(group, "-group")
		filtered := rows[:0:0]
		for _, row := range rows {
			for _, med := range row.Medications {
				if strings.EqualFold(med, medication) {
					filtered = append(filtered, row)
					break
				}
			}
		}
		rows = filtered
	}

	if rows == nil {
		rows = []models.EnrichedPatient{}
	}
	writeJSON(w, map[string]interface{}{
		"patients": rows,
		"total":    len(rows),
	})
}

func (h *PatientsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var profile models.PatientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid patient payload", http.StatusBadRequest)
		return
	}
	if profile.Age < 0 || profile.Age > 130 {
		http.Error(w, "age out of range", http.StatusBadRequest)
		return
	}

	enrichedRow, pred := h.service.CreatePatient(r.Context(), profile)
	writeJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"patient":    enrichedRow,
		"prediction": pred,
	})
}

// handleRisk predicts on demand from the stored profile; the dashboard
// snapshot is never replayed here.
func (h *PatientsHandler) handleRisk(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	row, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	writeJSON(w, h.client.Predict(r.Context(), row.PatientProfile))
}
