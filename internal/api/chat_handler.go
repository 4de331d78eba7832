package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/chat"
	"go.uber.org/zap"
)

// ChatHandler serves the AI assistant conversation.
type ChatHandler struct {
	chat   *chat.Service
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chatService, logger: logger}
}

// History returns the caller's assistant conversation.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.chat.History(currentAccount(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type chatRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
}

// Send processes one user turn. The reply may carry a pending transaction
// that waits for confirmation.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Text == "" && req.ImageBase64 == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cần text hoặc image_base64"})
		return
	}

	userMsg, reply, err := h.chat.SendMessage(c.Request.Context(), currentAccount(c), req.Text, req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_message": userMsg, "reply": reply})
}

// Confirm commits a pending transaction into the ledger.
func (h *ChatHandler) Confirm(c *gin.Context) {
	tx, err := h.chat.ConfirmPending(currentAccount(c).ID, c.Param("messageID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "không tìm thấy giao dịch chờ xác nhận"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Reject discards a pending transaction.
func (h *ChatHandler) Reject(c *gin.Context) {
	if err := h.chat.RejectPending(currentAccount(c).ID, c.Param("messageID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "không tìm thấy tin nhắn"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "đã bỏ qua giao dịch"})
}
