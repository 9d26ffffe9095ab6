package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Latest state per pool, flushed on a timer
	priceBuffer map[string]*PriceMessage
	poolBuffer  map[string]*PoolMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Configuration
	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Update intervals
	PriceInterval time.Duration // Default: 500ms
	PoolInterval  time.Duration // Default: 1s

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Rate limiting
	MessageRateLimit int // Messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PriceInterval:    500 * time.Millisecond,
		PoolInterval:     time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		priceBuffer: make(map[string]*PriceMessage),
		poolBuffer:  make(map[string]*PoolMessage),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	priceTicker := time.NewTicker(h.config.PriceInterval)
	poolTicker := time.NewTicker(h.config.PoolInterval)

	defer priceTicker.Stop()
	defer poolTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-priceTicker.C:
			h.broadcastPrices()

		case <-poolTicker.C:
			h.broadcastPools()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		// Remove from all channels
		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	// Send subscription confirmation
	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	// Send unsubscription confirmation
	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all clients
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Make a copy of clients to avoid holding lock during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePrice updates the share price buffer for a pool
func (h *Hub) UpdatePrice(poolID string, price *PriceMessage) {
	h.mu.Lock()
	h.priceBuffer[poolID] = price
	h.mu.Unlock()
}

// UpdatePool updates the pool state buffer for a pool
func (h *Hub) UpdatePool(poolID string, pool *PoolMessage) {
	h.mu.Lock()
	h.poolBuffer[poolID] = pool
	h.mu.Unlock()
}

// broadcastPrices broadcasts all buffered share price updates
func (h *Hub) broadcastPrices() {
	h.mu.RLock()
	prices := make(map[string]*PriceMessage)
	for k, v := range h.priceBuffer {
		prices[k] = v
	}
	h.mu.RUnlock()

	for poolID, price := range prices {
		channel := topicPrice + ":" + poolID
		msg := &WSMessage{
			Type:    "price",
			Channel: channel,
			Data:    price,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// broadcastPools broadcasts all buffered pool state updates
func (h *Hub) broadcastPools() {
	h.mu.RLock()
	pools := make(map[string]*PoolMessage)
	for k, v := range h.poolBuffer {
		pools[k] = v
	}
	h.mu.RUnlock()

	for poolID, pool := range pools {
		channel := topicPool + ":" + poolID
		msg := &WSMessage{
			Type:    "pool",
			Channel: channel,
			Data:    pool,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// BroadcastQueueUpdate broadcasts a redemption queue update to a specific user
func (h *Hub) BroadcastQueueUpdate(userID string, update *QueueMessage) {
	channel := topicQueue + ":" + userID
	msg := &WSMessage{
		Type:    "queue",
		Channel: channel,
		Data:    update,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastFlashEvent broadcasts a flash loan settlement to pool subscribers
func (h *Hub) BroadcastFlashEvent(poolID string, event *FlashMessage) {
	channel := topicFlash + ":" + poolID
	msg := &WSMessage{
		Type:    "flash",
		Channel: channel,
		Data:    event,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PriceMessage represents a share price update
type PriceMessage struct {
	PoolID     string `json:"pool_id"`
	SharePrice string `json:"share_price"`
	Timestamp  int64  `json:"timestamp"`
}

// PoolMessage represents a pool state update
type PoolMessage struct {
	PoolID          string `json:"pool_id"`
	Status          string `json:"status"`
	TotalAssets     string `json:"total_assets"`
	TotalShares     string `json:"total_shares"`
	SharePrice      string `json:"share_price"`
	PendingShares   string `json:"pending_shares"`
	ClaimableShares string `json:"claimable_shares"`
	Timestamp       int64  `json:"timestamp"`
}

// QueueMessage represents a redemption queue update for a user
type QueueMessage struct {
	PoolID          string `json:"pool_id"`
	Owner           string `json:"owner"`
	TotalShares     string `json:"total_shares"`
	ClaimableShares string `json:"claimable_shares"`
	LockedPrice     string `json:"locked_price"`
	ClaimableAt     int64  `json:"claimable_at"`
	Status          string `json:"status"`
	Timestamp       int64  `json:"timestamp"`
}

// FlashMessage represents a settled flash loan
type FlashMessage struct {
	PoolID    string `json:"pool_id"`
	Borrower  string `json:"borrower"`
	Amount    string `json:"amount"`
	Fee       string `json:"fee"`
	Timestamp int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = generateID()
	}

	userID := r.URL.Query().Get("user_id")
	ip := getClientIPFromRequest(r)

	client := NewClient(h, conn, clientID, userID, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Helper function to get client IP
func getClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

// Generate a simple ID
func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
