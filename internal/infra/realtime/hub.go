package realtime

import (
	"context"
	"errors"
	"log/slog"

	domainchat "unilodge/internal/domain/chat"
)

// ErrStopped is returned for deliveries attempted after the hub's run loop
// has exited.
var ErrStopped = errors.New("realtime: hub stopped")

// Hub routes persisted chat messages to the receiver's connected clients.
// One registration per open messaging view; a user may hold several at once.
// Delivery is at-least-once from the consumer's perspective: the inbox merge
// downstream is idempotent by message id.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	deliver    chan domainchat.Message
	done       chan struct{}
	clients    map[string]map[*Client]bool
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan domainchat.Message, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until the context is cancelled.
// Once it returns, Register and Unregister become no-ops instead of blocking,
// so websocket teardown racing a shutdown cannot hang.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.log("realtime client registered", "user_id", client.UserID, "connections", len(h.clients[client.UserID]))
		case client := <-h.unregister:
			if userClients, ok := h.clients[client.UserID]; ok {
				delete(userClients, client)
				if len(userClients) == 0 {
					delete(h.clients, client.UserID)
				}
				h.log("realtime client unregistered", "user_id", client.UserID)
			}
		case msg := <-h.deliver:
			for client := range h.clients[msg.ReceiverID] {
				select {
				case client.Events <- msg:
				default:
					h.log("realtime event buffer full, dropping", "user_id", client.UserID, "message_id", msg.ID)
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// MessageSent implements the chat service's Publisher for single-instance
// deployments: events go straight to the local client set.
func (h *Hub) MessageSent(ctx context.Context, msg domainchat.Message) error {
	select {
	case h.deliver <- msg:
		return nil
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) log(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
