package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"quality-review-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "review_cluster_events"
	broadcastAll   = "*"
)

// Hub fans review events out to connected reviewers. With Redis configured, every
// instance relays what it sends so reviewers connected elsewhere get it too.
type Hub struct {
	// reviewer id -> connections (one per tab/device)
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed once Run returns

	mu sync.RWMutex

	rdb        *redis.Client
	instanceId string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// join hands the client to Run. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.ReviewerId]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.ReviewerId] = set
	}
	set[client] = struct{}{}
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"reviewer_id": client.ReviewerId})
}

// removeClient is idempotent so a slow client dropped during delivery can still
// unregister from its read pump.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.ReviewerId]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.ReviewerId)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"reviewer_id": client.ReviewerId})
	}
}

// Broadcast sends a typed message to every connected reviewer.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	h.dispatch(broadcastAll, messageType, data)
}

// Send delivers a typed message to all connections of one reviewer.
func (h *Hub) Send(reviewerId, messageType string, data interface{}) {
	h.dispatch(reviewerId, messageType, data)
}

func (h *Hub) ConnectedReviewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) dispatch(target, messageType string, data interface{}) {
	raw, err := json.Marshal(map[string]interface{}{
		"type": messageType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal message", map[string]interface{}{"type": messageType, "error": err})
		return
	}

	h.deliverLocal(target, raw)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.instanceId, Target: target, Message: raw})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay message to cluster", map[string]interface{}{"error": err})
		}
	}
}

func (h *Hub) deliverLocal(target string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for reviewerId, set := range h.clients {
		if target != broadcastAll && target != reviewerId {
			continue
		}
		for client := range set {
			select {
			case client.Send <- data:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"reviewer_id": client.ReviewerId})
		h.removeClient(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Failed to parse cluster message", map[string]interface{}{"error": err})
			continue
		}
		if payload.Origin == h.instanceId {
			continue
		}
		h.deliverLocal(payload.Target, payload.Message)
	}
}
