package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/openalpha/rivervault/api/types"
	"github.com/openalpha/rivervault/metrics"
)

// VaultHandler handles vault API requests
type VaultHandler struct {
	service types.VaultService
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(service types.VaultService) *VaultHandler {
	return &VaultHandler{service: service}
}

// RegisterRoutes registers vault API routes
func (h *VaultHandler) RegisterRoutes(r *mux.Router) {
	// Pool routes
	r.HandleFunc("/v1/vault/pools", h.GetPools).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}", h.GetPool).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/price", h.GetSharePrice).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/price/history", h.GetPriceHistory).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/fees", h.GetFees).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/requests", h.GetPendingRequests).Methods("GET")

	// User routes
	r.HandleFunc("/v1/vault/pools/{poolId}/user/{user}/balance", h.GetUserBalance).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/user/{user}/request", h.GetUserRequest).Methods("GET")

	// Estimation routes
	r.HandleFunc("/v1/vault/pools/{poolId}/estimate/deposit", h.EstimateDeposit).Methods("GET")
	r.HandleFunc("/v1/vault/pools/{poolId}/estimate/redeem", h.EstimateRedeem).Methods("GET")

	// Transaction routes
	r.HandleFunc("/v1/vault/deposit", h.Deposit).Methods("POST")
	r.HandleFunc("/v1/vault/redeem", h.Redeem).Methods("POST")
	r.HandleFunc("/v1/vault/redeem/request", h.RequestRedeem).Methods("POST")
	r.HandleFunc("/v1/vault/redeem/cancel", h.CancelRequest).Methods("POST")
	r.HandleFunc("/v1/vault/redeem/claim", h.ClaimRedeem).Methods("POST")
}

// DepositRequest is the body for POST /v1/vault/deposit
type DepositRequest struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`
	Amount string `json:"amount"`
}

// RedeemRequest is the body for POST /v1/vault/redeem and /v1/vault/redeem/request
type RedeemRequest struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`
	Shares string `json:"shares"`
}

// QueueActionRequest is the body for cancel and claim actions
type QueueActionRequest struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`
}

// GetPools returns all pools
func (h *VaultHandler) GetPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.service.GetPools()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pools": pools,
		"total": len(pools),
	})
}

// GetPool returns a single pool
func (h *VaultHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	pool, err := h.service.GetPool(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// GetSharePrice returns the current share price
func (h *VaultHandler) GetSharePrice(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	price, err := h.service.GetSharePrice(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// GetPriceHistory returns recent share price marks
func (h *VaultHandler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	points, err := h.service.GetPriceHistory(poolID, limit)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pool_id": poolID,
		"points":  points,
	})
}

// GetFees returns a pool's fee schedule
func (h *VaultHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	fees, err := h.service.GetFees(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fees)
}

// GetPendingRequests returns all queued redemption requests for a pool
func (h *VaultHandler) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	requests, err := h.service.GetPendingRequests(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pool_id":  poolID,
		"requests": requests,
		"total":    len(requests),
	})
}

// GetUserBalance returns a user's shares and their current value
func (h *VaultHandler) GetUserBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	balance, err := h.service.GetUserBalance(vars["poolId"], vars["user"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetUserRequest returns a user's queued redemption request
func (h *VaultHandler) GetUserRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	request, err := h.service.GetUserRequest(vars["poolId"], vars["user"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// EstimateDeposit estimates the shares a deposit would mint
func (h *VaultHandler) EstimateDeposit(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	amount, err := parseDecParam(r, "amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate, err := h.service.EstimateDeposit(poolID, amount)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// EstimateRedeem estimates the assets a redemption would pay
func (h *VaultHandler) EstimateRedeem(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]

	shares, err := parseDecParam(r, "shares")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate, err := h.service.EstimateRedeem(poolID, shares)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// Deposit handles a deposit request
func (h *VaultHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	timer := metrics.NewTimer()

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PoolID == "" || req.User == "" {
		writeError(w, http.StatusBadRequest, "pool_id and user are required")
		return
	}
	amount, err := math.LegacyNewDecFromStr(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	result, err := h.service.Deposit(req.PoolID, req.User, amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := metrics.GetCollector()
	c.RecordDeposit(req.PoolID, "deposit", mustFloat(result.Amount))
	c.DepositLatency.WithLabelValues(req.PoolID).Observe(timer.ElapsedMs())

	writeJSON(w, http.StatusOK, result)
}

// Redeem handles an immediate redemption
func (h *VaultHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	timer := metrics.NewTimer()

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PoolID == "" || req.User == "" {
		writeError(w, http.StatusBadRequest, "pool_id and user are required")
		return
	}
	shares, err := math.LegacyNewDecFromStr(req.Shares)
	if err != nil || !shares.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid shares: "+req.Shares)
		return
	}

	result, err := h.service.Redeem(req.PoolID, req.User, shares)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := metrics.GetCollector()
	c.RecordRedemption(req.PoolID, "redeem", mustFloat(result.Amount))
	c.RedemptionLatency.WithLabelValues(req.PoolID).Observe(timer.ElapsedMs())

	writeJSON(w, http.StatusOK, result)
}

// RequestRedeem queues shares for asynchronous redemption
func (h *VaultHandler) RequestRedeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PoolID == "" || req.User == "" {
		writeError(w, http.StatusBadRequest, "pool_id and user are required")
		return
	}
	shares, err := math.LegacyNewDecFromStr(req.Shares)
	if err != nil || !shares.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid shares: "+req.Shares)
		return
	}

	result, err := h.service.RequestRedeem(req.PoolID, req.User, shares)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CancelRequest cancels a queued redemption request
func (h *VaultHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	var req QueueActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PoolID == "" || req.User == "" {
		writeError(w, http.StatusBadRequest, "pool_id and user are required")
		return
	}

	result, err := h.service.CancelRequest(req.PoolID, req.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.GetCollector().RecordCancellation(req.PoolID, mustFloat(result.BurnedShares))

	writeJSON(w, http.StatusOK, result)
}

// ClaimRedeem settles the claimable part of a redemption request
func (h *VaultHandler) ClaimRedeem(w http.ResponseWriter, r *http.Request) {
	var req QueueActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PoolID == "" || req.User == "" {
		writeError(w, http.StatusBadRequest, "pool_id and user are required")
		return
	}

	result, err := h.service.ClaimRedeem(req.PoolID, req.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.GetCollector().RecordRedemption(req.PoolID, "claim", mustFloat(result.Amount))

	writeJSON(w, http.StatusOK, result)
}

// Helper functions

func parseDecParam(r *http.Request, name string) (math.LegacyDec, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return math.LegacyDec{}, errMissingParam(name)
	}
	dec, err := math.LegacyNewDecFromStr(raw)
	if err != nil || !dec.IsPositive() {
		return math.LegacyDec{}, errInvalidParam(name, raw)
	}
	return dec, nil
}

type paramError struct{ msg string }

func (e paramError) Error() string { return e.msg }

func errMissingParam(name string) error {
	return paramError{msg: "missing query parameter: " + name}
}

func errInvalidParam(name, value string) error {
	return paramError{msg: "invalid " + name + ": " + value}
}

func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
