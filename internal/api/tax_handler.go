package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/internal/tax"
	"go.uber.org/zap"
)

// TaxHandler serves the yearly presumptive-tax summary.
type TaxHandler struct {
	engine       *tax.Engine
	transactions *repository.TransactionRepository
	logger       *zap.Logger
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(engine *tax.Engine, transactions *repository.TransactionRepository, logger *zap.Logger) *TaxHandler {
	return &TaxHandler{engine: engine, transactions: transactions, logger: logger}
}

// Summary computes the tax position for the requested year. Without a
// year parameter the default year is used. The summary is always derived
// fresh from the ledger and the current profile.
func (h *TaxHandler) Summary(c *gin.Context) {
	account := currentAccount(c)

	txs, err := h.transactions.ListByAccount(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	year := tax.DefaultYear(txs, time.Now())
	if yearParam := c.Query("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year phải là số"})
			return
		}
		year = parsed
	}

	profile := entity.BusinessProfile{}
	if account.Profile != nil {
		profile = *account.Profile
	}

	summary := h.engine.Summarize(txs, year, profile)
	monthly := h.engine.MonthlyTotals(txs, year)

	c.JSON(http.StatusOK, gin.H{
		"summary":      summary,
		"monthly":      monthly,
		"default_year": tax.DefaultYear(txs, time.Now()),
	})
}
