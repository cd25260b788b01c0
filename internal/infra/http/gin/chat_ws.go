package ginserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"unilodge/internal/app/dto"
	chatsvc "unilodge/internal/app/services/chat"
	domainchat "unilodge/internal/domain/chat"
	"unilodge/internal/infra/realtime"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Token auth, no cookies: cross-origin upgrades are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatWSHandler runs the realtime messaging session: one websocket per open
// messaging view, one Inbox state machine per socket.
type ChatWSHandler struct {
	Service *chatsvc.Service
	Hub     *realtime.Hub
	Logger  *slog.Logger
}

// Inbound frames from the browser.
type wsClientFrame struct {
	Type       string `json:"type"` // select | send
	OtherUser  string `json:"other_user,omitempty"`
	PropertyID string `json:"property_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

// Outbound frames to the browser.
type wsServerFrame struct {
	Type          string             `json:"type"` // conversations | thread | message | sent | error
	Conversations []dto.Conversation `json:"conversations,omitempty"`
	Messages      []dto.ChatMessage  `json:"messages,omitempty"`
	Message       *dto.ChatMessage   `json:"message,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Stream upgrades the connection and serves the session until the socket
// drops. Supports the same deep-link draft query parameters as the REST
// conversation list (start, landlord, property).
func (h ChatWSHandler) Stream(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil || h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}
	owner, err := h.Service.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}

	inbox := chatsvc.NewInbox(h.Service, owner)
	if isTruthy(c.Query("start")) && c.Query("landlord") != "" {
		err = inbox.LoadWithDraft(c.Request.Context(), c.Query("landlord"), c.Query("property"))
	} else {
		err = inbox.Load(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log("websocket upgrade failed", "user_id", principal.ID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := realtime.NewClient(h.Hub, principal.ID, conn)
	session := &chatSession{handler: h, client: client, inbox: inbox, ctx: ctx}
	h.Hub.Register(client)

	go client.WritePump()
	go session.eventLoop()

	session.sendConversations()
	// Blocks until the peer disconnects; teardown happens inside ReadPump.
	client.ReadPump(session.handleFrame)
}

type chatSession struct {
	handler ChatWSHandler
	client  *realtime.Client
	inbox   *chatsvc.Inbox
	ctx     context.Context
}

func (s *chatSession) handleFrame(payload []byte) {
	var frame wsClientFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		s.sendError("invalid frame")
		return
	}
	switch frame.Type {
	case "select":
		msgs, applied, err := s.inbox.Select(s.ctx, frame.OtherUser, frame.PropertyID)
		if err != nil {
			s.sendError("thread load failed")
			return
		}
		if !applied {
			// A newer selection superseded this one; its result will
			// be delivered by the winning select.
			return
		}
		s.send(wsServerFrame{Type: "thread", Messages: dto.MapChatMessages(msgs)})
		s.sendConversations()
	case "send":
		msg, err := s.inbox.Send(s.ctx, frame.Content)
		if err != nil {
			s.sendError("send failed")
			return
		}
		mapped := dto.MapChatMessage(msg)
		s.send(wsServerFrame{Type: "sent", Message: &mapped})
		s.sendConversations()
	default:
		s.sendError("unknown frame type")
	}
}

// eventLoop drains hub deliveries for this connection and merges them into
// the inbox. It exits with the session context.
func (s *chatSession) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.client.Events:
			s.ingest(msg)
		}
	}
}

func (s *chatSession) ingest(msg domainchat.Message) {
	change := s.inbox.Ingest(s.ctx, msg)
	if change.Duplicate {
		return
	}
	if change.AppendedToActive != nil {
		mapped := dto.MapChatMessage(*change.AppendedToActive)
		s.send(wsServerFrame{Type: "message", Message: &mapped})
	}
	s.send(wsServerFrame{Type: "conversations", Conversations: dto.MapConversations(change.Conversations)})
}

func (s *chatSession) sendConversations() {
	s.send(wsServerFrame{Type: "conversations", Conversations: dto.MapConversations(s.inbox.Conversations())})
}

func (s *chatSession) sendError(msg string) {
	s.send(wsServerFrame{Type: "error", Error: msg})
}

func (s *chatSession) send(frame wsServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		s.handler.log("frame encode failed", "error", err)
		return
	}
	if !s.client.Queue(payload) {
		s.handler.log("outbound frame dropped", "user_id", s.client.UserID, "type", frame.Type)
	}
}

func (h ChatWSHandler) log(msg string, args ...any) {
	if h.Logger != nil {
		h.Logger.Warn(msg, args...)
	}
}
