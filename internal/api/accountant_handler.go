package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/accountant"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// AccountantHandler serves the accountant hand-off flow.
type AccountantHandler struct {
	accountant *accountant.Service
	logger     *zap.Logger
}

// NewAccountantHandler creates a new accountant handler
func NewAccountantHandler(accountantService *accountant.Service, logger *zap.Logger) *AccountantHandler {
	return &AccountantHandler{accountant: accountantService, logger: logger}
}

// Match returns the matched accountant and the caller's booking progress.
func (h *AccountantHandler) Match(c *gin.Context) {
	booking, err := h.accountant.Status(currentAccount(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accountant": h.accountant.Matched(),
		"booking":    booking,
	})
}

// Book starts the hand-off flow.
func (h *AccountantHandler) Book(c *gin.Context) {
	h.advance(c, h.accountant.Book)
}

// Pay records payment for the filing service.
func (h *AccountantHandler) Pay(c *gin.Context) {
	h.advance(c, h.accountant.Pay)
}

// Connect completes the matching checklist and opens the direct channel.
func (h *AccountantHandler) Connect(c *gin.Context) {
	h.advance(c, h.accountant.Connect)
}

func (h *AccountantHandler) advance(c *gin.Context, step func(string) (*entity.Booking, error)) {
	booking, err := step(currentAccount(c).ID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Messages returns the direct channel and marks the other side's messages
// as read.
func (h *AccountantHandler) Messages(c *gin.Context) {
	account := currentAccount(c)

	channelID := account.ID
	if account.Role == entity.RoleAccountant {
		channelID = c.Query("client_id")
		if channelID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id là bắt buộc"})
			return
		}
	}

	messages, err := h.accountant.Messages(channelID, account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type p2pRequest struct {
	Text     string `json:"text" binding:"required"`
	ClientID string `json:"client_id"`
}

// SendMessage posts into the direct channel.
func (h *AccountantHandler) SendMessage(c *gin.Context) {
	var req p2pRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text là bắt buộc"})
		return
	}

	account := currentAccount(c)
	channelID := account.ID
	if account.Role == entity.RoleAccountant {
		if req.ClientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id là bắt buộc"})
			return
		}
		channelID = req.ClientID
	}

	msg, err := h.accountant.SendMessage(channelID, account.ID, req.Text)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Clients returns the roster, accountant role only.
func (h *AccountantHandler) Clients(c *gin.Context) {
	clients, err := h.accountant.Clients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}
