package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unilodge/internal/app/dto"
	chatsvc "unilodge/internal/app/services/chat"
	domainchat "unilodge/internal/domain/chat"
)

// ChatHTTP exposes the messaging endpoints.
type ChatHTTP interface {
	ListConversations(c *gin.Context)
	ListThreadMessages(c *gin.Context)
	SendMessage(c *gin.Context)
	MarkThreadRead(c *gin.Context)
}

type ChatHandler struct {
	Service *chatsvc.Service
	Logger  *slog.Logger
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	PropertyID string `json:"property_id"`
	Content    string `json:"content"`
}

// ListConversations returns the caller's inbox, newest activity first. With
// start=true and a landlord id a draft entry is prepended when no thread with
// that landlord and property scope exists yet.
func (h ChatHandler) ListConversations(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}

	var (
		conversations []domainchat.Conversation
		err           error
	)
	if isTruthy(c.Query("start")) && strings.TrimSpace(c.Query("landlord")) != "" {
		conversations, err = h.Service.ConversationsWithDraft(
			c.Request.Context(), principal.ID, c.Query("landlord"), c.Query("property"))
	} else {
		conversations, err = h.Service.Conversations(c.Request.Context(), principal.ID)
	}
	if err != nil {
		h.respondChatError(c, err, "list conversations", "user_id", principal.ID)
		return
	}
	c.JSON(http.StatusOK, dto.ConversationList{Items: dto.MapConversations(conversations)})
}

// ListThreadMessages returns one thread oldest first and marks the unread
// inbound messages read as a side effect of opening it.
func (h ChatHandler) ListThreadMessages(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}
	otherUserID := strings.TrimSpace(c.Param("user"))
	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	msgs, err := h.Service.OpenThread(c.Request.Context(), principal.ID, otherUserID, c.Query("property"))
	if err != nil {
		h.respondChatError(c, err, "open thread", "user_id", principal.ID, "other_user_id", otherUserID)
		return
	}
	c.JSON(http.StatusOK, dto.ChatMessageList{Items: dto.MapChatMessages(msgs)})
}

func (h ChatHandler) SendMessage(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	msg, err := h.Service.Send(c.Request.Context(), principal.ID, req.ReceiverID, req.PropertyID, req.Content)
	if err != nil {
		h.respondChatError(c, err, "send message", "user_id", principal.ID, "receiver_id", req.ReceiverID)
		return
	}
	c.JSON(http.StatusCreated, dto.MapChatMessage(msg))
}

func (h ChatHandler) MarkThreadRead(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
		return
	}
	otherUserID := strings.TrimSpace(c.Param("user"))
	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	count, err := h.Service.MarkThreadRead(c.Request.Context(), principal.ID, otherUserID, c.Query("property"))
	if err != nil {
		h.respondChatError(c, err, "mark thread read", "user_id", principal.ID, "other_user_id", otherUserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

func (h ChatHandler) respondChatError(c *gin.Context, err error, action string, attrs ...any) {
	if h.Logger != nil {
		h.Logger.Error("chat call failed", append([]any{"action", action, "error", err}, attrs...)...)
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		case codes.InvalidArgument:
			c.JSON(http.StatusBadRequest, gin.H{"error": st.Message()})
			return
		case codes.Unauthenticated, codes.PermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		case codes.Unavailable, codes.DeadlineExceeded:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging unavailable"})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	}
	return false
}

var _ ChatHTTP = (*ChatHandler)(nil)
