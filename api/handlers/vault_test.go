package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/openalpha/rivervault/api/types"
)

// stubService is a minimal VaultService for handler tests
type stubService struct {
	pool     *types.PoolInfo
	balances map[string]math.LegacyDec
}

func newStubService() *stubService {
	return &stubService{
		pool: &types.PoolInfo{
			PoolID:      "usd-vault",
			Denom:       "uusdc",
			Status:      "active",
			TotalAssets: "1050000",
			TotalShares: "1000000",
			SharePrice:  "1.05",
		},
		balances: map[string]math.LegacyDec{
			"alice": math.LegacyMustNewDecFromStr("1000"),
		},
	}
}

func (s *stubService) GetPools() ([]*types.PoolInfo, error) {
	return []*types.PoolInfo{s.pool}, nil
}

func (s *stubService) GetPool(poolID string) (*types.PoolInfo, error) {
	if poolID != s.pool.PoolID {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return s.pool, nil
}

func (s *stubService) GetSharePrice(poolID string) (*types.SharePriceInfo, error) {
	if poolID != s.pool.PoolID {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return &types.SharePriceInfo{PoolID: poolID, SharePrice: s.pool.SharePrice}, nil
}

func (s *stubService) GetPriceHistory(poolID string, limit int) ([]*types.PricePoint, error) {
	return []*types.PricePoint{{Timestamp: 1700000000, SharePrice: "1.05"}}, nil
}

func (s *stubService) GetFees(poolID string) (*types.FeeInfo, error) {
	return &types.FeeInfo{PoolID: poolID, PerformanceBps: 2000, EntryBps: 50}, nil
}

func (s *stubService) GetUserBalance(poolID, user string) (*types.UserBalance, error) {
	shares, ok := s.balances[user]
	if !ok {
		shares = math.LegacyZeroDec()
	}
	return &types.UserBalance{PoolID: poolID, User: user, Shares: shares.String()}, nil
}

func (s *stubService) GetUserRequest(poolID, user string) (*types.RequestInfo, error) {
	return nil, fmt.Errorf("no redemption request for %s", user)
}

func (s *stubService) GetPendingRequests(poolID string) ([]*types.RequestInfo, error) {
	return nil, nil
}

func (s *stubService) EstimateDeposit(poolID string, amount math.LegacyDec) (*types.DepositEstimate, error) {
	return &types.DepositEstimate{PoolID: poolID, Amount: amount.String()}, nil
}

func (s *stubService) EstimateRedeem(poolID string, shares math.LegacyDec) (*types.RedeemEstimate, error) {
	return &types.RedeemEstimate{PoolID: poolID, Shares: shares.String()}, nil
}

func (s *stubService) Deposit(poolID, user string, amount math.LegacyDec) (*types.DepositResult, error) {
	if poolID != s.pool.PoolID {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return &types.DepositResult{PoolID: poolID, User: user, Amount: amount.String(), Shares: "950"}, nil
}

func (s *stubService) Redeem(poolID, user string, shares math.LegacyDec) (*types.RedeemResult, error) {
	bal, ok := s.balances[user]
	if !ok || bal.LT(shares) {
		return nil, fmt.Errorf("insufficient shares")
	}
	return &types.RedeemResult{PoolID: poolID, User: user, Shares: shares.String(), Amount: "1050"}, nil
}

func (s *stubService) RequestRedeem(poolID, user string, shares math.LegacyDec) (*types.RequestResult, error) {
	return &types.RequestResult{PoolID: poolID, User: user, Shares: shares.String(), SharePrice: "1.05"}, nil
}

func (s *stubService) CancelRequest(poolID, user string) (*types.CancelResult, error) {
	return &types.CancelResult{PoolID: poolID, User: user, ReturnedShares: "100", BurnedShares: "0"}, nil
}

func (s *stubService) ClaimRedeem(poolID, user string) (*types.ClaimResult, error) {
	return &types.ClaimResult{PoolID: poolID, User: user, Shares: "100", Amount: "105"}, nil
}

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	NewVaultHandler(newStubService()).RegisterRoutes(r)
	return r
}

// TestHTTPRouteRegistration tests that routes are properly registered
func TestHTTPRouteRegistration(t *testing.T) {
	routes := []struct {
		path   string
		method string
	}{
		{"/v1/vault/pools", "GET"},
		{"/v1/vault/pools/{poolId}", "GET"},
		{"/v1/vault/pools/{poolId}/price", "GET"},
		{"/v1/vault/pools/{poolId}/price/history", "GET"},
		{"/v1/vault/pools/{poolId}/fees", "GET"},
		{"/v1/vault/pools/{poolId}/requests", "GET"},
		{"/v1/vault/pools/{poolId}/user/{user}/balance", "GET"},
		{"/v1/vault/pools/{poolId}/user/{user}/request", "GET"},
		{"/v1/vault/pools/{poolId}/estimate/deposit", "GET"},
		{"/v1/vault/pools/{poolId}/estimate/redeem", "GET"},
		{"/v1/vault/deposit", "POST"},
		{"/v1/vault/redeem", "POST"},
		{"/v1/vault/redeem/request", "POST"},
		{"/v1/vault/redeem/cancel", "POST"},
		{"/v1/vault/redeem/claim", "POST"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			_, err := mux.NewRouter().NewRoute().Path(route.path).GetPathTemplate()
			if err != nil {
				t.Errorf("invalid route path: %s", route.path)
			}
		})
	}
}

// TestGetPool tests the pool detail endpoint
func TestGetPool(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/v1/vault/pools/usd-vault", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var pool types.PoolInfo
	if err := json.NewDecoder(rec.Body).Decode(&pool); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if pool.PoolID != "usd-vault" {
		t.Errorf("expected pool ID usd-vault, got %s", pool.PoolID)
	}
	if pool.SharePrice != "1.05" {
		t.Errorf("expected share price 1.05, got %s", pool.SharePrice)
	}
}

// TestGetPoolNotFound tests the 404 path
func TestGetPoolNotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/v1/vault/pools/no-such-pool", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

// TestDeposit tests the deposit endpoint
func TestDeposit(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid deposit",
			body:           `{"pool_id":"usd-vault","user":"alice","amount":"1000"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing pool",
			body:           `{"user":"alice","amount":"1000"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid amount",
			body:           `{"pool_id":"usd-vault","user":"alice","amount":"abc"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown pool",
			body:           `{"pool_id":"no-such-pool","user":"alice","amount":"1000"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter()
			req := httptest.NewRequest("POST", "/v1/vault/deposit", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

// TestRedeemInsufficientShares tests the redeem error path
func TestRedeemInsufficientShares(t *testing.T) {
	router := newTestRouter()

	body := `{"pool_id":"usd-vault","user":"bob","shares":"100"}`
	req := httptest.NewRequest("POST", "/v1/vault/redeem", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in response")
	}
}

// TestEstimateDepositParams tests query parameter validation
func TestEstimateDepositParams(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{"valid amount", "?amount=1000", http.StatusOK},
		{"missing amount", "", http.StatusBadRequest},
		{"negative amount", "?amount=-5", http.StatusBadRequest},
		{"garbage amount", "?amount=xyz", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter()
			req := httptest.NewRequest("GET", "/v1/vault/pools/usd-vault/estimate/deposit"+tc.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
		})
	}
}

// TestPoolInfoJSON tests JSON round-trip of the pool response
func TestPoolInfoJSON(t *testing.T) {
	info := &types.PoolInfo{
		PoolID:          "usd-vault",
		Denom:           "uusdc",
		Status:          "active",
		TotalAssets:     "1050000",
		TotalShares:     "1000000",
		SharePrice:      "1.05",
		ClaimableShares: "100",
		ClaimableValue:  "105",
	}

	jsonBytes, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal pool info: %v", err)
	}

	var decoded types.PoolInfo
	if err := json.Unmarshal(jsonBytes, &decoded); err != nil {
		t.Fatalf("failed to unmarshal pool info: %v", err)
	}

	if decoded.PoolID != info.PoolID {
		t.Errorf("expected pool ID %s, got %s", info.PoolID, decoded.PoolID)
	}
	if decoded.SharePrice != info.SharePrice {
		t.Errorf("expected share price %s, got %s", info.SharePrice, decoded.SharePrice)
	}
	if decoded.ClaimableValue != info.ClaimableValue {
		t.Errorf("expected claimable value %s, got %s", info.ClaimableValue, decoded.ClaimableValue)
	}
}
