package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/report"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/internal/tax"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler streams xlsx documents.
type ReportHandler struct {
	generator    *report.Generator
	engine       *tax.Engine
	transactions *repository.TransactionRepository
	logger       *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(generator *report.Generator, engine *tax.Engine, transactions *repository.TransactionRepository, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		generator:    generator,
		engine:       engine,
		transactions: transactions,
		logger:       logger,
	}
}

// TaxReport builds the yearly tax report and streams it as a download.
func (h *ReportHandler) TaxReport(c *gin.Context) {
	account := currentAccount(c)
	if account.Profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cần hoàn thiện hồ sơ kinh doanh trước khi xuất báo cáo"})
		return
	}

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

	summary := h.engine.Summarize(txs, year, *account.Profile)
	monthly := h.engine.MonthlyTotals(txs, year)

	file, err := h.generator.BuildTaxReport(account.Profile, summary, monthly)
	if err != nil {
		h.logger.Error("Failed to build tax report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bao-cao-thue-%d.xlsx"`, year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ServiceQuote builds the accountant engagement quote and streams it.
func (h *ReportHandler) ServiceQuote(c *gin.Context, accountant entity.AccountantProfile) {
	account := currentAccount(c)
	if account.Profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cần hoàn thiện hồ sơ kinh doanh trước khi xuất báo giá"})
		return
	}

	file, err := h.generator.BuildServiceQuote(account.Profile, accountant)
	if err != nil {
		h.logger.Error("Failed to build service quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build quote"})
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render quote"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bao-gia-dich-vu.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
