package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RiverVault Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all RiverVault metrics
type Collector struct {
	// Deposit metrics
	DepositsTotal  *prometheus.CounterVec
	DepositVolume  *prometheus.CounterVec
	DepositLatency *prometheus.HistogramVec

	// Redemption metrics
	RedemptionsTotal  *prometheus.CounterVec
	RedemptionVolume  *prometheus.CounterVec
	RedemptionLatency *prometheus.HistogramVec

	// Redemption queue metrics
	QueuePendingShares   *prometheus.GaugeVec
	QueueClaimableShares *prometheus.GaugeVec
	QueueClaimableValue  *prometheus.GaugeVec
	QueueCancellations   *prometheus.CounterVec
	QueueBurnedShares    *prometheus.CounterVec

	// Pool metrics
	PoolTotalAssets *prometheus.GaugeVec
	PoolTotalShares *prometheus.GaugeVec
	SharePrice      *prometheus.GaugeVec
	PendingProfit   *prometheus.GaugeVec
	IdleBalance     *prometheus.GaugeVec

	// Fee metrics
	FeesCollectedTotal *prometheus.CounterVec
	FeeSharesMinted    *prometheus.CounterVec
	EntryFeesTotal     *prometheus.CounterVec
	ExitFeesTotal      *prometheus.CounterVec

	// Flash loan metrics
	FlashLoansTotal   *prometheus.CounterVec
	FlashLoanVolume   *prometheus.CounterVec
	FlashLoanFees     *prometheus.CounterVec
	FlashLoanFailures *prometheus.CounterVec

	// Harvest metrics
	HarvestsTotal  *prometheus.CounterVec
	HarvestGain    *prometheus.CounterVec
	HarvestLoss    *prometheus.CounterVec
	HarvestLatency *prometheus.HistogramVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	ActiveUsers prometheus.Gauge
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
	TxPoolSize  prometheus.Gauge
	PeerCount   prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Deposit metrics
	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "deposits",
			Name:      "total",
			Help:      "Total number of deposits",
		},
		[]string{"pool_id", "kind"},
	)

	c.DepositVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "deposits",
			Name:      "volume",
			Help:      "Total deposit volume in the pool asset",
		},
		[]string{"pool_id"},
	)

	c.DepositLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "deposits",
			Name:      "latency_ms",
			Help:      "Deposit processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"pool_id"},
	)

	// Redemption metrics
	c.RedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "redemptions",
			Name:      "total",
			Help:      "Total number of redemptions settled",
		},
		[]string{"pool_id", "kind"},
	)

	c.RedemptionVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "redemptions",
			Name:      "volume",
			Help:      "Total redemption volume in the pool asset",
		},
		[]string{"pool_id"},
	)

	c.RedemptionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "redemptions",
			Name:      "latency_ms",
			Help:      "Redemption processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"pool_id"},
	)

	// Redemption queue metrics
	c.QueuePendingShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "queue",
			Name:      "pending_shares",
			Help:      "Shares queued for redemption",
		},
		[]string{"pool_id"},
	)

	c.QueueClaimableShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "queue",
			Name:      "claimable_shares",
			Help:      "Queued shares past the redemption lock",
		},
		[]string{"pool_id"},
	)

	c.QueueClaimableValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "queue",
			Name:      "claimable_value",
			Help:      "Asset value reserved for claimable redemptions",
		},
		[]string{"pool_id"},
	)

	c.QueueCancellations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "queue",
			Name:      "cancellations_total",
			Help:      "Total cancelled redemption requests",
		},
		[]string{"pool_id"},
	)

	c.QueueBurnedShares = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "queue",
			Name:      "burned_shares_total",
			Help:      "Shares burned as cancellation opportunity cost",
		},
		[]string{"pool_id"},
	)

	// Pool metrics
	c.PoolTotalAssets = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "pool",
			Name:      "total_assets",
			Help:      "Accounted assets under management",
		},
		[]string{"pool_id"},
	)

	c.PoolTotalShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "pool",
			Name:      "total_shares",
			Help:      "Outstanding share supply",
		},
		[]string{"pool_id"},
	)

	c.SharePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "pool",
			Name:      "share_price",
			Help:      "Current share price",
		},
		[]string{"pool_id"},
	)

	c.PendingProfit = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "pool",
			Name:      "pending_profit",
			Help:      "Harvested profit still inside the recognition cooldown",
		},
		[]string{"pool_id"},
	)

	c.IdleBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "pool",
			Name:      "idle_balance",
			Help:      "Undeployed assets in module custody",
		},
		[]string{"pool_id"},
	)

	// Fee metrics
	c.FeesCollectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "fees",
			Name:      "collected_total",
			Help:      "Total fee value collected",
		},
		[]string{"pool_id", "kind"},
	)

	c.FeeSharesMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "fees",
			Name:      "shares_minted_total",
			Help:      "Shares minted to the fee recipient",
		},
		[]string{"pool_id"},
	)

	c.EntryFeesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "fees",
			Name:      "entry_total",
			Help:      "Total entry fees accrued to pools",
		},
		[]string{"pool_id"},
	)

	c.ExitFeesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "fees",
			Name:      "exit_total",
			Help:      "Total exit fees accrued to pools",
		},
		[]string{"pool_id"},
	)

	// Flash loan metrics
	c.FlashLoansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "flash",
			Name:      "loans_total",
			Help:      "Total flash loans settled",
		},
		[]string{"pool_id"},
	)

	c.FlashLoanVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "flash",
			Name:      "volume",
			Help:      "Total flash loan principal lent",
		},
		[]string{"pool_id"},
	)

	c.FlashLoanFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "flash",
			Name:      "fees_total",
			Help:      "Total flash loan fees accrued to pools",
		},
		[]string{"pool_id"},
	)

	c.FlashLoanFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "flash",
			Name:      "failures_total",
			Help:      "Flash loans rolled back",
		},
		[]string{"pool_id", "reason"},
	)

	// Harvest metrics
	c.HarvestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "harvest",
			Name:      "total",
			Help:      "Total harvest runs",
		},
		[]string{"pool_id"},
	)

	c.HarvestGain = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "harvest",
			Name:      "gain_total",
			Help:      "Total harvested gains",
		},
		[]string{"pool_id"},
	)

	c.HarvestLoss = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "harvest",
			Name:      "loss_total",
			Help:      "Total harvested losses",
		},
		[]string{"pool_id"},
	)

	c.HarvestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "harvest",
			Name:      "latency_ms",
			Help:      "Harvest latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50},
		},
		[]string{"pool_id"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rivervault",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.ActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "system",
			Name:      "active_users",
			Help:      "Number of active users",
		},
	)

	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rivervault",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	c.TxPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "system",
			Name:      "tx_pool_size",
			Help:      "Transaction pool size",
		},
	)

	c.PeerCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rivervault",
			Subsystem: "system",
			Name:      "peer_count",
			Help:      "Number of connected peers",
		},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Deposit metrics
	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.DepositVolume)
	prometheus.MustRegister(c.DepositLatency)

	// Redemption metrics
	prometheus.MustRegister(c.RedemptionsTotal)
	prometheus.MustRegister(c.RedemptionVolume)
	prometheus.MustRegister(c.RedemptionLatency)

	// Redemption queue metrics
	prometheus.MustRegister(c.QueuePendingShares)
	prometheus.MustRegister(c.QueueClaimableShares)
	prometheus.MustRegister(c.QueueClaimableValue)
	prometheus.MustRegister(c.QueueCancellations)
	prometheus.MustRegister(c.QueueBurnedShares)

	// Pool metrics
	prometheus.MustRegister(c.PoolTotalAssets)
	prometheus.MustRegister(c.PoolTotalShares)
	prometheus.MustRegister(c.SharePrice)
	prometheus.MustRegister(c.PendingProfit)
	prometheus.MustRegister(c.IdleBalance)

	// Fee metrics
	prometheus.MustRegister(c.FeesCollectedTotal)
	prometheus.MustRegister(c.FeeSharesMinted)
	prometheus.MustRegister(c.EntryFeesTotal)
	prometheus.MustRegister(c.ExitFeesTotal)

	// Flash loan metrics
	prometheus.MustRegister(c.FlashLoansTotal)
	prometheus.MustRegister(c.FlashLoanVolume)
	prometheus.MustRegister(c.FlashLoanFees)
	prometheus.MustRegister(c.FlashLoanFailures)

	// Harvest metrics
	prometheus.MustRegister(c.HarvestsTotal)
	prometheus.MustRegister(c.HarvestGain)
	prometheus.MustRegister(c.HarvestLoss)
	prometheus.MustRegister(c.HarvestLatency)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)
	prometheus.MustRegister(c.WSSubscriptions)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	// System metrics
	prometheus.MustRegister(c.ActiveUsers)
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
	prometheus.MustRegister(c.TxPoolSize)
	prometheus.MustRegister(c.PeerCount)
}

// ============ Recording Helpers ============

// RecordDeposit records a deposit event
func (c *Collector) RecordDeposit(poolID, kind string, volume float64) {
	c.DepositsTotal.WithLabelValues(poolID, kind).Inc()
	c.DepositVolume.WithLabelValues(poolID).Add(volume)
}

// RecordRedemption records a settled redemption
func (c *Collector) RecordRedemption(poolID, kind string, volume float64) {
	c.RedemptionsTotal.WithLabelValues(poolID, kind).Inc()
	c.RedemptionVolume.WithLabelValues(poolID).Add(volume)
}

// RecordQueueState records the redemption queue aggregates
func (c *Collector) RecordQueueState(poolID string, pending, claimable, claimableValue float64) {
	c.QueuePendingShares.WithLabelValues(poolID).Set(pending)
	c.QueueClaimableShares.WithLabelValues(poolID).Set(claimable)
	c.QueueClaimableValue.WithLabelValues(poolID).Set(claimableValue)
}

// RecordCancellation records a cancelled redemption request
func (c *Collector) RecordCancellation(poolID string, burned float64) {
	c.QueueCancellations.WithLabelValues(poolID).Inc()
	if burned > 0 {
		c.QueueBurnedShares.WithLabelValues(poolID).Add(burned)
	}
}

// RecordPoolState records a pool's accounting marks
func (c *Collector) RecordPoolState(poolID string, totalAssets, totalShares, sharePrice, pendingProfit, idle float64) {
	c.PoolTotalAssets.WithLabelValues(poolID).Set(totalAssets)
	c.PoolTotalShares.WithLabelValues(poolID).Set(totalShares)
	c.SharePrice.WithLabelValues(poolID).Set(sharePrice)
	c.PendingProfit.WithLabelValues(poolID).Set(pendingProfit)
	c.IdleBalance.WithLabelValues(poolID).Set(idle)
}

// RecordFeeCollection records a performance/management fee collection
func (c *Collector) RecordFeeCollection(poolID, kind string, value, shares float64) {
	c.FeesCollectedTotal.WithLabelValues(poolID, kind).Add(value)
	c.FeeSharesMinted.WithLabelValues(poolID).Add(shares)
}

// RecordFlashLoan records a settled flash loan
func (c *Collector) RecordFlashLoan(poolID string, principal, fee float64) {
	c.FlashLoansTotal.WithLabelValues(poolID).Inc()
	c.FlashLoanVolume.WithLabelValues(poolID).Add(principal)
	c.FlashLoanFees.WithLabelValues(poolID).Add(fee)
}

// RecordFlashLoanFailure records a rolled-back flash loan
func (c *Collector) RecordFlashLoanFailure(poolID, reason string) {
	c.FlashLoanFailures.WithLabelValues(poolID, reason).Inc()
}

// RecordHarvest records a harvest run
func (c *Collector) RecordHarvest(poolID string, gain float64, latencyMs float64) {
	c.HarvestsTotal.WithLabelValues(poolID).Inc()
	if gain > 0 {
		c.HarvestGain.WithLabelValues(poolID).Add(gain)
	} else if gain < 0 {
		c.HarvestLoss.WithLabelValues(poolID).Add(-gain)
	}
	c.HarvestLatency.WithLabelValues(poolID).Observe(latencyMs)
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64, txPoolSize int, peerCount int) {
	c.BlockHeight.Set(float64(blockHeight))
	c.TxPoolSize.Set(float64(txPoolSize))
	c.PeerCount.Set(float64(peerCount))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
