package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/ledger"
)

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "micropay_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "micropay_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	paymentsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "micropay_payments_total",
		Help: "Accepted payments by kind",
	}, []string{"kind"})
)

type Handler struct {
	engine *ledger.Engine
	log    *zap.SugaredLogger
}

func NewHandler(engine *ledger.Engine, log *zap.SugaredLogger) *Handler {
	return &Handler{engine: engine, log: log}
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	account := domain.AccountID(mux.Vars(r)["id"])

	var req domain.MoveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/accounts/{id}/deposit")
		return
	}

	credited, err := h.engine.Deposit(account, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err, "POST", "/accounts/{id}/deposit")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]uint64{"credited": credited}, "POST", "/accounts/{id}/deposit")
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account := domain.AccountID(mux.Vars(r)["id"])

	var req domain.MoveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/accounts/{id}/withdraw")
		return
	}

	debited, err := h.engine.Withdraw(account, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err, "POST", "/accounts/{id}/withdraw")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]uint64{"debited": debited}, "POST", "/accounts/{id}/withdraw")
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account := domain.AccountID(mux.Vars(r)["id"])
	acc := domain.Account{Owner: account, Balance: h.engine.GetBalance(account)}
	h.respondJSON(w, http.StatusOK, acc, "GET", "/accounts/{id}")
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/payments"))
	defer timer.ObserveDuration()

	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/payments")
		return
	}
	if req.Sender == req.Recipient {
		h.respondError(w, http.StatusUnprocessableEntity, "Cannot pay self", "POST", "/payments")
		return
	}

	id, fee, err := h.engine.SendMicropayment(req.Sender, req.Recipient, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err, "POST", "/payments")
		return
	}

	paymentsAccepted.WithLabelValues("direct").Inc()
	h.respondJSON(w, http.StatusCreated, domain.PaymentResponse{PaymentID: id, Fee: fee}, "POST", "/payments")
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid payment id", "GET", "/payments/{id}")
		return
	}

	p, ok := h.engine.GetPayment(id)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Payment not found", "GET", "/payments/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, p, "GET", "/payments/{id}")
}

func (h *Handler) SettlePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid payment id", "POST", "/payments/{id}/settle")
		return
	}

	if err := h.engine.MarkPaymentSettled(id); err != nil {
		h.respondLedgerError(w, err, "POST", "/payments/{id}/settle")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "settled"}, "POST", "/payments/{id}/settle")
}

func (h *Handler) OpenChannel(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/channels")
		return
	}
	if req.Sender == req.Recipient {
		h.respondError(w, http.StatusUnprocessableEntity, "Cannot open channel to self", "POST", "/channels")
		return
	}

	id, err := h.engine.OpenChannel(req.Sender, req.Recipient, req.Deposit, req.TimeoutBlocks)
	if err != nil {
		h.respondLedgerError(w, err, "POST", "/channels")
		return
	}

	ch, _ := h.engine.GetChannel(domain.ChannelKey{Sender: req.Sender, Recipient: req.Recipient, ID: id})
	h.respondJSON(w, http.StatusCreated, domain.OpenChannelResponse{ChannelID: id, Timeout: ch.Timeout}, "POST", "/channels")
}

func (h *Handler) CreateChannelPayment(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/channels/payments"))
	defer timer.ObserveDuration()

	var req domain.ChannelPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/channels/payments")
		return
	}

	id, err := h.engine.SendChannelPayment(req.Sender, req.Recipient, req.ChannelID, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err, "POST", "/channels/payments")
		return
	}

	paymentsAccepted.WithLabelValues("channel").Inc()
	h.respondJSON(w, http.StatusCreated, domain.PaymentResponse{PaymentID: id}, "POST", "/channels/payments")
}

func (h *Handler) CloseChannel(w http.ResponseWriter, r *http.Request) {
	var req domain.CloseChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "POST", "/channels/close")
		return
	}

	key := domain.ChannelKey{Sender: req.Sender, Recipient: req.Recipient, ID: req.ChannelID}
	if err := h.engine.CloseChannel(key, req.Requester); err != nil {
		h.respondLedgerError(w, err, "POST", "/channels/close")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "closed"}, "POST", "/channels/close")
}

func (h *Handler) GetChannel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid channel id", "GET", "/channels/{id}")
		return
	}
	q := r.URL.Query()
	key := domain.ChannelKey{
		Sender:    domain.AccountID(q.Get("sender")),
		Recipient: domain.AccountID(q.Get("recipient")),
		ID:        id,
	}

	ch, ok := h.engine.GetChannel(key)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Channel not found", "GET", "/channels/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, ch, "GET", "/channels/{id}")
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	user := domain.AccountID(mux.Vars(r)["id"])
	h.respondJSON(w, http.StatusOK, h.engine.GetUserStats(user), "GET", "/users/{id}/stats")
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.engine.GetPlatformStats(), "GET", "/platform")
}

func (h *Handler) SetPlatformFee(w http.ResponseWriter, r *http.Request) {
	var req domain.SetFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", "PUT", "/platform/fee")
		return
	}

	rate, err := h.engine.SetPlatformFee(req.Requester, req.FeeRateBps)
	if err != nil {
		h.respondLedgerError(w, err, "PUT", "/platform/fee")
		return
	}

	h.log.Infow("fee rate updated", "rate_bps", rate, "requester", req.Requester)
	h.respondJSON(w, http.StatusOK, map[string]uint64{"fee_rate_bps": rate}, "PUT", "/platform/fee")
}

func (h *Handler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount", "GET", "/fees/quote")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]uint64{
		"amount": amount,
		"fee":    h.engine.CalculateFee(amount),
	}, "GET", "/fees/quote")
}

// respondLedgerError maps core error kinds onto HTTP statuses.
func (h *Handler) respondLedgerError(w http.ResponseWriter, err error, method, endpoint string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvalidAmount):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrPaymentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrChannelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrChannelExpired):
		status = http.StatusGone
	case errors.Is(err, ledger.ErrPaymentAlreadyProcessed):
		status = http.StatusConflict
	default:
		h.log.Errorw("unexpected ledger error", "error", err)
	}
	h.respondError(w, status, err.Error(), method, endpoint)
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
