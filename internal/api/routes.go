package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the platform routes onto a mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
	v1.HandleFunc("/accounts/{id}/deposit", h.Deposit).Methods("POST")
	v1.HandleFunc("/accounts/{id}/withdraw", h.Withdraw).Methods("POST")

	v1.HandleFunc("/payments", h.CreatePayment).Methods("POST")
	v1.HandleFunc("/payments/{id}", h.GetPayment).Methods("GET")
	v1.HandleFunc("/payments/{id}/settle", h.SettlePayment).Methods("POST")

	v1.HandleFunc("/channels", h.OpenChannel).Methods("POST")
	v1.HandleFunc("/channels/payments", h.CreateChannelPayment).Methods("POST")
	v1.HandleFunc("/channels/close", h.CloseChannel).Methods("POST")
	v1.HandleFunc("/channels/{id}", h.GetChannel).Methods("GET")

	v1.HandleFunc("/users/{id}/stats", h.GetUserStats).Methods("GET")
	v1.HandleFunc("/platform", h.GetPlatformStats).Methods("GET")
	v1.HandleFunc("/platform/fee", h.SetPlatformFee).Methods("PUT")
	v1.HandleFunc("/fees/quote", h.QuoteFee).Methods("GET")

	return r
}
