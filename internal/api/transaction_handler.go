package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/pkg/utils"
	"go.uber.org/zap"
)

// TransactionHandler serves the ledger.
type TransactionHandler struct {
	transactions *repository.TransactionRepository
	logger       *zap.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions *repository.TransactionRepository, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, logger: logger}
}

// List returns the caller's transactions, optionally filtered by year.
func (h *TransactionHandler) List(c *gin.Context) {
	account := currentAccount(c)

	txs, err := h.transactions.ListByAccount(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	if yearParam := c.Query("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year phải là số"})
			return
		}
		filtered := txs[:0]
		for _, t := range txs {
			if t.Date.Year() == year {
				filtered = append(filtered, t)
			}
		}
		txs = filtered
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

type transactionRequest struct {
	Date        string `json:"date" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
	Category    string `json:"category"`
}

// Create records a manually entered transaction. Manual entries are
// verified by definition, the user typed them in.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date, amount và type là bắt buộc"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date phải có dạng YYYY-MM-DD"})
		return
	}
	txType := entity.TransactionType(req.Type)
	if txType != entity.TransactionIncome && txType != entity.TransactionExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type phải là INCOME hoặc EXPENSE"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount phải lớn hơn 0"})
		return
	}

	account := currentAccount(c)
	t := &entity.Transaction{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Date:        date,
		Amount:      req.Amount,
		Description: utils.SanitizeInput(req.Description),
		Type:        txType,
		Category:    utils.SanitizeInput(req.Category),
		RiskLevel:   entity.RiskSafe,
		Source:      entity.SourceManual,
		IsVerified:  true,
		CreatedAt:   time.Now(),
	}
	if err := h.transactions.Create(nil, t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save transaction"})
		return
	}

	h.logger.Info("Manual transaction recorded",
		zap.String("account_id", account.ID),
		zap.String("type", string(t.Type)),
		zap.Int64("amount", t.Amount))
	c.JSON(http.StatusCreated, t)
}

// Delete removes one of the caller's transactions.
func (h *TransactionHandler) Delete(c *gin.Context) {
	account := currentAccount(c)
	if err := h.transactions.Delete(account.ID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "không tìm thấy giao dịch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "đã xóa giao dịch"})
}
