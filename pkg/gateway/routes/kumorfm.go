package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/prediction"
)

type KumoHandler struct {
	client *prediction.Client
}

func NewKumoHandler(client *prediction.Client) *KumoHandler {
	return &KumoHandler{client: client}
}

func (h *KumoHandler) Register(r *mux.Router) {
	r.HandleFunc("/kumorfm/configure", h.handleConfigure).Methods(http.MethodPost)
	r.HandleFunc("/kumorfm/status", h.handleStatus).Methods(http.MethodGet)
}

type configureRequest struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

// handleConfigure swaps vendor credentials for the remainder of the
// process. Clearing the key reverts every caller to mock predictions.
func (h *KumoHandler) handleConfigure(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid configure payload", http.StatusBadRequest)
		return
	}

	h.client.Configure(req.APIKey, req.BaseURL)
	logger.WithField("connected", h.client.Configured()).Info("kumorfm credentials updated")

	writeJSON(w, h.client.Status())
}

func (h *KumoHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.client.Status())
}
