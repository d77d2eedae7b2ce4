package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	csvRowsProcessed  atomic.Int64
	csvRowsRejected   atomic.Int64
	predictionsMock   atomic.Int64
	predictionsKumo   atomic.Int64
	kumoFallbacks     atomic.Int64
	alertsEmitted     atomic.Int64
	alertStreamActive atomic.Int64
)

func ObserveIngestion(processed, rejected int) {
	csvRowsProcessed.Add(int64(processed))
	csvRowsRejected.Add(int64(rejected))
}

func ObserveMockPrediction() { predictionsMock.Add(1) }

func ObserveKumoPrediction() { predictionsKumo.Add(1) }

func ObserveKumoFallback() { kumoFallbacks.Add(1) }

func ObserveAlertEmitted() { alertsEmitted.Add(1) }

func AlertStreamOpened() { alertStreamActive.Add(1) }

func AlertStreamClosed() { alertStreamActive.Add(-1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP kumohax_ingestion_rows_processed_total CSV rows parsed and stored since startup.\n")
	fmt.Fprintf(w, "# TYPE kumohax_ingestion_rows_processed_total counter\n")
	fmt.Fprintf(w, "kumohax_ingestion_rows_processed_total %d\n", csvRowsProcessed.Load())

	fmt.Fprintf(w, "# HELP kumohax_ingestion_rows_rejected_total CSV rows rejected by validation since startup.\n")
	fmt.Fprintf(w, "# TYPE kumohax_ingestion_rows_rejected_total counter\n")
	fmt.Fprintf(w, "kumohax_ingestion_rows_rejected_total %d\n", csvRowsRejected.Load())

	fmt.Fprintf(w, "# HELP kumohax_predictions_mock_total Predictions served by the mock generator.\n")
	fmt.Fprintf(w, "# TYPE kumohax_predictions_mock_total counter\n")
	fmt.Fprintf(w, "kumohax_predictions_mock_total %d\n", predictionsMock.Load())

	fmt.Fprintf(w, "# HELP kumohax_predictions_kumo_total Predictions served by the KumoRFM service.\n")
	fmt.Fprintf(w, "# TYPE kumohax_predictions_kumo_total counter\n")
	fmt.Fprintf(w, "kumohax_predictions_kumo_total %d\n", predictionsKumo.Load())

	fmt.Fprintf(w, "# HELP kumohax_predictions_kumo_fallback_total Remote prediction failures downgraded to mock.\n")
	fmt.Fprintf(w, "# TYPE kumohax_predictions_kumo_fallback_total counter\n")
	fmt.Fprintf(w, "kumohax_predictions_kumo_fallback_total %d\n", kumoFallbacks.Load())

	fmt.Fprintf(w, "# HELP kumohax_alerts_emitted_total Synthetic alerts emitted since startup.\n")
	fmt.Fprintf(w, "# TYPE kumohax_alerts_emitted_total counter\n")
	fmt.Fprintf(w, "kumohax_alerts_emitted_total %d\n", alertsEmitted.Load())

	fmt.Fprintf(w, "# HELP kumohax_alert_stream_clients Currently connected alert stream clients.\n")
	fmt.Fprintf(w, "# TYPE kumohax_alert_stream_clients gauge\n")
	fmt.Fprintf(w, "kumohax_alert_stream_clients %d\n", alertStreamActive.Load())
}
