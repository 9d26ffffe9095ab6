package api

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/google/btree"
	"github.com/huandu/skiplist"

	"github.com/openalpha/rivervault/api/types"
)

// MockVaultService is an in-memory VaultService for development and testing.
// It mirrors the on-chain accounting closely enough for frontend work:
// share price excludes the claimable reserve, deposits pay the entry fee,
// queued redemptions settle at the lower of the locked and current price.
type MockVaultService struct {
	mu sync.RWMutex

	pools    map[string]*mockPool
	balances map[string]math.LegacyDec // poolID/user -> shares
	requests map[string]*mockRequest   // poolID/user

	// Share price marks ordered by timestamp
	history map[string]*btree.BTreeG[*types.PricePoint]
}

type mockPool struct {
	info           *types.PoolInfo
	totalAssets    math.LegacyDec
	totalShares    math.LegacyDec
	claimableVal   math.LegacyDec
	claimableShrs  math.LegacyDec
	entryBps       int64
	exitBps        int64
	redemptionLock time.Duration

	// Redemption queue ordered by claimable time
	queue *skiplist.SkipList
}

func pricePointLess(a, b *types.PricePoint) bool {
	return a.Timestamp < b.Timestamp
}

// queueKey orders requests by claimable time, then owner
func queueKey(claimableAt int64, user string) string {
	return fmt.Sprintf("%020d/%s", claimableAt, user)
}

type mockRequest struct {
	shares      math.LegacyDec
	claimable   math.LegacyDec
	lockedPrice math.LegacyDec
	requestedAt time.Time
}

// NewMockVaultService creates a mock service seeded with a demo pool
func NewMockVaultService() *MockVaultService {
	s := &MockVaultService{
		pools:    make(map[string]*mockPool),
		balances: make(map[string]math.LegacyDec),
		requests: make(map[string]*mockRequest),
		history:  make(map[string]*btree.BTreeG[*types.PricePoint]),
	}

	now := time.Now().Unix()
	s.pools["usd-vault"] = &mockPool{
		info: &types.PoolInfo{
			PoolID:         "usd-vault",
			Denom:          "uusdc",
			Status:         "active",
			MaxTotalAssets: "10000000",
			MinLiquidity:   "100",
			ProfitCooldown: 86400,
			RedemptionLock: 259200,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		totalAssets:    math.LegacyMustNewDecFromStr("1050000"),
		totalShares:    math.LegacyMustNewDecFromStr("1000000"),
		claimableVal:   math.LegacyZeroDec(),
		claimableShrs:  math.LegacyZeroDec(),
		entryBps:       50,
		exitBps:        9,
		redemptionLock: 72 * time.Hour,
		queue:          skiplist.New(skiplist.String),
	}

	tree := btree.NewG(8, pricePointLess)
	tree.ReplaceOrInsert(&types.PricePoint{Timestamp: now - 7200, SharePrice: "1.04"})
	tree.ReplaceOrInsert(&types.PricePoint{Timestamp: now - 3600, SharePrice: "1.045"})
	tree.ReplaceOrInsert(&types.PricePoint{Timestamp: now, SharePrice: "1.05"})
	s.history["usd-vault"] = tree

	return s
}

// markPrice records the pool's current share price in the history tree.
// Callers must hold the write lock.
func (s *MockVaultService) markPrice(poolID string, p *mockPool) {
	tree, ok := s.history[poolID]
	if !ok {
		tree = btree.NewG(8, pricePointLess)
		s.history[poolID] = tree
	}
	tree.ReplaceOrInsert(&types.PricePoint{
		Timestamp:  time.Now().Unix(),
		SharePrice: p.sharePrice().String(),
	})
}

func (s *MockVaultService) pool(poolID string) (*mockPool, error) {
	p, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return p, nil
}

// sharePrice computes the carve-out price: claimable reserves are excluded
// from both sides of the ratio
func (p *mockPool) sharePrice() math.LegacyDec {
	effShares := p.totalShares.Sub(p.claimableShrs)
	if !effShares.IsPositive() {
		return math.LegacyOneDec()
	}
	effAssets := p.totalAssets.Sub(p.claimableVal)
	if effAssets.IsNegative() {
		return math.LegacyZeroDec()
	}
	return effAssets.QuoTruncate(effShares)
}

func (p *mockPool) fill() *types.PoolInfo {
	info := *p.info
	info.TotalAssets = p.totalAssets.String()
	info.TotalShares = p.totalShares.String()
	info.SharePrice = p.sharePrice().String()
	info.PendingProfit = "0"
	info.ClaimableShares = p.claimableShrs.String()
	info.ClaimableValue = p.claimableVal.String()
	return &info
}

func balanceKey(poolID, user string) string {
	return poolID + "/" + user
}

func bpsCut(amount math.LegacyDec, bps int64) math.LegacyDec {
	return amount.MulTruncate(math.LegacyNewDec(bps).QuoInt64(10000))
}

// GetPools returns all pools
func (s *MockVaultService) GetPools() ([]*types.PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*types.PoolInfo, 0, len(s.pools))
	for _, p := range s.pools {
		pools = append(pools, p.fill())
	}
	return pools, nil
}

// GetPool returns a single pool
func (s *MockVaultService) GetPool(poolID string) (*types.PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	return p.fill(), nil
}

// GetSharePrice returns the current share price
func (s *MockVaultService) GetSharePrice(poolID string) (*types.SharePriceInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	return &types.SharePriceInfo{
		PoolID:     poolID,
		SharePrice: p.sharePrice().String(),
		Timestamp:  time.Now().Unix(),
	}, nil
}

// GetPriceHistory returns recent share price marks
func (s *MockVaultService) GetPriceHistory(poolID string, limit int) ([]*types.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.pool(poolID); err != nil {
		return nil, err
	}
	tree, ok := s.history[poolID]
	if !ok {
		return nil, nil
	}
	points := make([]*types.PricePoint, 0, tree.Len())
	tree.Ascend(func(p *types.PricePoint) bool {
		points = append(points, p)
		return true
	})
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}

// GetFees returns a pool's fee schedule
func (s *MockVaultService) GetFees(poolID string) (*types.FeeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	return &types.FeeInfo{
		PoolID:         poolID,
		PerformanceBps: 2000,
		ManagementBps:  200,
		EntryBps:       p.entryBps,
		ExitBps:        p.exitBps,
		FlashBps:       9,
	}, nil
}

// GetUserBalance returns a user's shares and their current value
func (s *MockVaultService) GetUserBalance(poolID, user string) (*types.UserBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	shares, ok := s.balances[balanceKey(poolID, user)]
	if !ok {
		shares = math.LegacyZeroDec()
	}
	return &types.UserBalance{
		PoolID: poolID,
		User:   user,
		Shares: shares.String(),
		Value:  shares.MulTruncate(p.sharePrice()).String(),
	}, nil
}

// GetUserRequest returns a user's queued redemption request
func (s *MockVaultService) GetUserRequest(poolID, user string) (*types.RequestInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	req, ok := s.requests[balanceKey(poolID, user)]
	if !ok {
		return nil, fmt.Errorf("no redemption request for %s in pool %s", user, poolID)
	}
	return reqToInfo(poolID, user, req, p.redemptionLock), nil
}

// GetPendingRequests returns all queued requests for a pool
func (s *MockVaultService) GetPendingRequests(poolID string) ([]*types.RequestInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	// Walk the queue in claimable-time order
	var out []*types.RequestInfo
	for el := p.queue.Front(); el != nil; el = el.Next() {
		user := el.Value.(string)
		req, ok := s.requests[balanceKey(poolID, user)]
		if !ok {
			continue
		}
		out = append(out, reqToInfo(poolID, user, req, p.redemptionLock))
	}
	return out, nil
}

func reqToInfo(poolID, user string, req *mockRequest, lock time.Duration) *types.RequestInfo {
	claimableAt := req.requestedAt.Add(lock)
	status := "pending"
	if req.claimable.IsPositive() || !time.Now().Before(claimableAt) {
		status = "claimable"
	}
	return &types.RequestInfo{
		PoolID:          poolID,
		Owner:           user,
		TotalShares:     req.shares.String(),
		ClaimableShares: req.claimable.String(),
		SharePrice:      req.lockedPrice.String(),
		RequestedAt:     req.requestedAt.Unix(),
		ClaimableAt:     claimableAt.Unix(),
		Status:          status,
	}
}

// EstimateDeposit estimates the shares a deposit would mint
func (s *MockVaultService) EstimateDeposit(poolID string, amount math.LegacyDec) (*types.DepositEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	fee := bpsCut(amount, p.entryBps)
	price := p.sharePrice()
	return &types.DepositEstimate{
		PoolID:          poolID,
		Amount:          amount.String(),
		EntryFee:        fee.String(),
		EstimatedShares: amount.Sub(fee).QuoTruncate(price).String(),
		SharePrice:      price.String(),
	}, nil
}

// EstimateRedeem estimates the assets a redemption would pay
func (s *MockVaultService) EstimateRedeem(poolID string, shares math.LegacyDec) (*types.RedeemEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	price := p.sharePrice()
	gross := shares.MulTruncate(price)
	fee := bpsCut(gross, p.exitBps)
	return &types.RedeemEstimate{
		PoolID:          poolID,
		Shares:          shares.String(),
		ExitFee:         fee.String(),
		EstimatedAmount: gross.Sub(fee).String(),
		SharePrice:      price.String(),
	}, nil
}

// Deposit mints shares for assets at the current price
func (s *MockVaultService) Deposit(poolID, user string, amount math.LegacyDec) (*types.DepositResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	if p.info.Status != "active" {
		return nil, fmt.Errorf("pool %s is paused", poolID)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	price := p.sharePrice()
	net := amount.Sub(bpsCut(amount, p.entryBps))
	shares := net.QuoTruncate(price)

	p.totalAssets = p.totalAssets.Add(amount)
	p.totalShares = p.totalShares.Add(shares)

	key := balanceKey(poolID, user)
	bal, ok := s.balances[key]
	if !ok {
		bal = math.LegacyZeroDec()
	}
	s.balances[key] = bal.Add(shares)
	s.markPrice(poolID, p)

	return &types.DepositResult{
		PoolID:     poolID,
		User:       user,
		Amount:     amount.String(),
		Shares:     shares.String(),
		SharePrice: price.String(),
		Timestamp:  time.Now().Unix(),
	}, nil
}

// Redeem burns shares for assets immediately
func (s *MockVaultService) Redeem(poolID, user string, shares math.LegacyDec) (*types.RedeemResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	key := balanceKey(poolID, user)
	bal, ok := s.balances[key]
	if !ok || bal.LT(shares) {
		return nil, fmt.Errorf("insufficient shares")
	}

	price := p.sharePrice()
	gross := shares.MulTruncate(price)
	amount := gross.Sub(bpsCut(gross, p.exitBps))

	p.totalAssets = p.totalAssets.Sub(gross)
	p.totalShares = p.totalShares.Sub(shares)
	s.balances[key] = bal.Sub(shares)
	s.markPrice(poolID, p)

	return &types.RedeemResult{
		PoolID:     poolID,
		User:       user,
		Shares:     shares.String(),
		Amount:     amount.String(),
		SharePrice: price.String(),
		Timestamp:  time.Now().Unix(),
	}, nil
}

// RequestRedeem queues shares for redemption, locking the current price
func (s *MockVaultService) RequestRedeem(poolID, user string, shares math.LegacyDec) (*types.RequestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	key := balanceKey(poolID, user)
	bal, ok := s.balances[key]
	if !ok || bal.LT(shares) {
		return nil, fmt.Errorf("insufficient shares")
	}

	price := p.sharePrice()
	now := time.Now()

	req, ok := s.requests[key]
	if ok {
		// Blend the locked price across the enlarged request; the lock
		// restarts, so the queue position moves
		p.queue.Remove(queueKey(req.requestedAt.Add(p.redemptionLock).Unix(), user))
		total := req.shares.Add(shares)
		value := req.shares.MulTruncate(req.lockedPrice).Add(shares.MulTruncate(price))
		req.lockedPrice = value.QuoTruncate(total)
		req.shares = total
		req.requestedAt = now
	} else {
		req = &mockRequest{
			shares:      shares,
			claimable:   math.LegacyZeroDec(),
			lockedPrice: price,
			requestedAt: now,
		}
		s.requests[key] = req
	}
	p.queue.Set(queueKey(now.Add(p.redemptionLock).Unix(), user), user)

	return &types.RequestResult{
		PoolID:      poolID,
		User:        user,
		Shares:      req.shares.String(),
		SharePrice:  req.lockedPrice.String(),
		ClaimableAt: now.Add(p.redemptionLock).Unix(),
	}, nil
}

// CancelRequest cancels a queued redemption, burning the opportunity cost
// when the price has risen above the locked price
func (s *MockVaultService) CancelRequest(poolID, user string) (*types.CancelResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	key := balanceKey(poolID, user)
	req, ok := s.requests[key]
	if !ok {
		return nil, fmt.Errorf("no redemption request for %s in pool %s", user, poolID)
	}

	burned := math.LegacyZeroDec()
	current := p.sharePrice()
	if current.GT(req.lockedPrice) && current.IsPositive() {
		burned = req.shares.MulTruncate(current.Sub(req.lockedPrice)).QuoTruncate(current)
	}
	returned := req.shares.Sub(burned)

	if burned.IsPositive() {
		bal := s.balances[key]
		s.balances[key] = bal.Sub(burned)
		p.totalShares = p.totalShares.Sub(burned)
		s.markPrice(poolID, p)
	}
	p.queue.Remove(queueKey(req.requestedAt.Add(p.redemptionLock).Unix(), user))
	delete(s.requests, key)

	return &types.CancelResult{
		PoolID:         poolID,
		User:           user,
		ReturnedShares: returned.String(),
		BurnedShares:   burned.String(),
		Timestamp:      time.Now().Unix(),
	}, nil
}

// ClaimRedeem settles a matured request at min(locked, current) price
func (s *MockVaultService) ClaimRedeem(poolID, user string) (*types.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pool(poolID)
	if err != nil {
		return nil, err
	}
	key := balanceKey(poolID, user)
	req, ok := s.requests[key]
	if !ok {
		return nil, fmt.Errorf("no redemption request for %s in pool %s", user, poolID)
	}
	if time.Now().Before(req.requestedAt.Add(p.redemptionLock)) {
		return nil, fmt.Errorf("request is still inside the redemption lock")
	}

	price := p.sharePrice()
	if req.lockedPrice.LT(price) {
		price = req.lockedPrice
	}
	gross := req.shares.MulTruncate(price)
	amount := gross.Sub(bpsCut(gross, p.exitBps))

	p.totalAssets = p.totalAssets.Sub(gross)
	p.totalShares = p.totalShares.Sub(req.shares)
	bal := s.balances[key]
	s.balances[key] = bal.Sub(req.shares)
	shares := req.shares
	p.queue.Remove(queueKey(req.requestedAt.Add(p.redemptionLock).Unix(), user))
	delete(s.requests, key)
	s.markPrice(poolID, p)

	return &types.ClaimResult{
		PoolID:    poolID,
		User:      user,
		Shares:    shares.String(),
		Amount:    amount.String(),
		Timestamp: time.Now().Unix(),
	}, nil
}
