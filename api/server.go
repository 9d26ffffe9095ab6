package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/openalpha/rivervault/api/handlers"
	"github.com/openalpha/rivervault/api/middleware"
	"github.com/openalpha/rivervault/api/types"
	"github.com/openalpha/rivervault/api/websocket"
	"github.com/openalpha/rivervault/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	mockMode   bool

	// Services
	vaultService types.VaultService

	// Handlers
	vaultHandler *handlers.VaultHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MockMode         bool
	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MockMode:     true,
	}
}

// NewServer creates a new API server backed by the in-memory mock service
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return NewServerWithService(config, NewMockVaultService())
}

// NewServerWithService creates a new API server with a custom vault service
func NewServerWithService(config *Config, vaultService types.VaultService) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	s := &Server{
		config:       config,
		wsServer:     websocket.NewServer(wsConfig),
		mockMode:     config.MockMode,
		vaultService: vaultService,
		rateLimiter:  middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
	}

	s.vaultHandler = handlers.NewVaultHandler(s.vaultService)

	return s
}

// Start starts the API server
func (s *Server) Start() error {
	router := mux.NewRouter()

	// Health check (support both /health and /v1/health for compatibility)
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/v1/health", s.handleHealth).Methods("GET")

	// Prometheus metrics
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Vault endpoints
	s.vaultHandler.RegisterRoutes(router)

	// WebSocket
	router.HandleFunc("/ws", s.wsServer.GetHub().ServeWS)

	// Apply middleware chain: CORS -> RateLimit -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(router)
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(router),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	// Push share price and pool state to WebSocket subscribers
	go s.startPriceBroadcaster()

	log.Printf("API server starting on %s (mock mode: %v)", addr, s.mockMode)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// startPriceBroadcaster feeds the WebSocket hub with pool state
func (s *Server) startPriceBroadcaster() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	collector := metrics.GetCollector()

	for range ticker.C {
		pools, err := s.vaultService.GetPools()
		if err != nil {
			continue
		}

		now := time.Now().Unix()
		for _, pool := range pools {
			s.wsServer.BroadcastPrice(&websocket.PriceMessage{
				PoolID:     pool.PoolID,
				SharePrice: pool.SharePrice,
				Timestamp:  now,
			})
			s.wsServer.BroadcastPool(&websocket.PoolMessage{
				PoolID:          pool.PoolID,
				Status:          pool.Status,
				TotalAssets:     pool.TotalAssets,
				TotalShares:     pool.TotalShares,
				SharePrice:      pool.SharePrice,
				PendingShares:   pool.PendingShares,
				ClaimableShares: pool.ClaimableShares,
				Timestamp:       now,
			})

			collector.SharePrice.WithLabelValues(pool.PoolID).Set(mustFloat(pool.SharePrice))
			collector.PoolTotalAssets.WithLabelValues(pool.PoolID).Set(mustFloat(pool.TotalAssets))
			collector.PoolTotalShares.WithLabelValues(pool.PoolID).Set(mustFloat(pool.TotalShares))
		}

		collector.WSConnectionsActive.WithLabelValues().Set(float64(s.wsServer.GetActiveConnections()))
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "real"
	if s.mockMode {
		mode = "mock"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"mode":      mode,
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
