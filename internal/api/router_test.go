package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuongle/taxmate/internal/accountant"
	"github.com/vuongle/taxmate/internal/ai"
	"github.com/vuongle/taxmate/internal/auth"
	"github.com/vuongle/taxmate/internal/backup"
	"github.com/vuongle/taxmate/internal/chat"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/report"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/internal/tax"
	"github.com/vuongle/taxmate/pkg/database"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type scriptedExtractor struct {
	result *ai.ExtractionResult
}

func (s *scriptedExtractor) ExtractTransaction(_ context.Context, _, _ string, _ *entity.BusinessProfile) (*ai.ExtractionResult, error) {
	return s.result, nil
}

func newTestRouter(t *testing.T, extractor chat.Extractor) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "api-test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).Run(repository.Migrations))

	accountRepo := repository.NewAccountRepository(db.DB, logger)
	transactionRepo := repository.NewTransactionRepository(db.DB, logger)
	chatRepo := repository.NewChatRepository(db.DB, logger)
	bookingRepo := repository.NewBookingRepository(db.DB, logger)

	taxEngine := tax.NewEngine(tax.DefaultPolicy())
	authService := auth.NewService(accountRepo, time.Hour, logger)
	chatService := chat.NewService(chatRepo, transactionRepo, extractor, logger)
	accountantService := accountant.NewService(bookingRepo, accountRepo, chatRepo, accountant.Config{
		Name:           "Chị Mai Kế Toán",
		LicenseNumber:  "KTV-0123/KTV",
		PricePerFiling: 199_000,
	}, logger)
	backupService := backup.NewService(
		backup.NewCodec("test-passphrase"),
		accountRepo, transactionRepo, chatRepo, bookingRepo, logger,
	)

	return NewRouter(Handlers{
		Auth:        NewAuthHandler(authService, logger),
		Profile:     NewProfileHandler(accountRepo, nil, logger),
		Transaction: NewTransactionHandler(transactionRepo, logger),
		Tax:         NewTaxHandler(taxEngine, transactionRepo, logger),
		Chat:        NewChatHandler(chatService, logger),
		Accountant:  NewAccountantHandler(accountantService, logger),
		Report:      NewReportHandler(report.NewGenerator(logger), taxEngine, transactionRepo, logger),
		Backup:      NewBackupHandler(backupService, logger),
	}, authService, accountantService, logger)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAccount(t *testing.T, router *gin.Engine, phone string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"phone_number": phone,
		"password":     "836149",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})

	// Sequential PINs are rejected.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"phone_number": "0912345678",
		"password":     "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Landline prefixes are rejected.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"phone_number": "0212345678",
		"password":     "836149",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate registration is rejected.
	registerAccount(t, router, "0912345678")
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"phone_number": "0912345678",
		"password":     "836149",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerAndTaxSummaryFlow(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})
	token := registerAccount(t, router, "0912345678")

	year := time.Now().Year()

	// Complete the profile so classification has an industry.
	w := doJSON(t, router, http.MethodPut, "/api/v1/profile", token, gin.H{
		"name":          "Quán Cơm Tấm Cô Ba",
		"tax_id":        "0312345678",
		"address":       "12 Lê Lợi, Quận 1, TP.HCM",
		"industry":      "Quán ăn",
		"industry_code": "5610",
		"owner_name":    "Nguyễn Thị Ba",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Income above the exemption threshold.
	w = doJSON(t, router, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"date":        fmt.Sprintf("%d-03-15", year),
		"amount":      600_000_000,
		"description": "Doanh thu quý 1",
		"type":        "INCOME",
		"category":    "Doanh thu",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tax/summary?year=%d", year), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary struct {
			YearlyIncome int64  `json:"yearly_income"`
			IsExempt     bool   `json:"is_exempt"`
			TaxAmount    string `json:"tax_amount"`
			Bracket      struct {
				GroupCode string `json:"group_code"`
			} `json:"bracket"`
		} `json:"summary"`
		DefaultYear int `json:"default_year"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(600_000_000), resp.Summary.YearlyIncome)
	assert.False(t, resp.Summary.IsExempt)
	assert.Equal(t, "Nhóm 3", resp.Summary.Bracket.GroupCode)
	// 4.5% of the full 600M, not only of the excess over 500M.
	assert.Equal(t, "27000000", resp.Summary.TaxAmount)
	assert.Equal(t, year, resp.DefaultYear)
}

func TestChatConfirmFlow(t *testing.T) {
	extractor := &scriptedExtractor{
		result: &ai.ExtractionResult{
			Reply: "Vui lòng xác nhận:",
			Transaction: &entity.Transaction{
				Date:      time.Date(2025, time.January, 19, 0, 0, 0, 0, time.UTC),
				Amount:    500_000,
				Type:      entity.TransactionIncome,
				Category:  "Doanh thu",
				RiskLevel: entity.RiskSafe,
			},
		},
	}
	router := newTestRouter(t, extractor)
	token := registerAccount(t, router, "0912345678")

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/messages", token, gin.H{
		"text": "Thu 500k bán hàng ngày 19/01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sendResp struct {
		Reply struct {
			ID             string              `json:"id"`
			ActionRequired bool                `json:"action_required"`
			Pending        *entity.Transaction `json:"pending_data"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sendResp))
	require.True(t, sendResp.Reply.ActionRequired)
	require.NotNil(t, sendResp.Reply.Pending)

	// Nothing in the ledger until confirmation.
	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Zero(t, listResp.Count)

	w = doJSON(t, router, http.MethodPost, "/api/v1/chat/confirm/"+sendResp.Reply.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)

	// Second confirm finds no pending transaction.
	w = doJSON(t, router, http.MethodPost, "/api/v1/chat/confirm/"+sendResp.Reply.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountantBookingFlow(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})
	token := registerAccount(t, router, "0912345678")

	w := doJSON(t, router, http.MethodGet, "/api/v1/accountant/match", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var matchResp struct {
		Accountant entity.AccountantProfile `json:"accountant"`
		Booking    entity.Booking           `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matchResp))
	assert.Equal(t, entity.BookingIdle, matchResp.Booking.Step)
	assert.Equal(t, int64(199_000), matchResp.Accountant.PricePerFiling)

	// Cannot pay before booking.
	w = doJSON(t, router, http.MethodPost, "/api/v1/accountant/pay", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, step := range []string{"book", "pay", "connect"} {
		w = doJSON(t, router, http.MethodPost, "/api/v1/accountant/"+step, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/accountant/messages", token, gin.H{
		"text": "Chị ơi, em cần quyết toán 2025",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Client role is barred from the roster.
	w = doJSON(t, router, http.MethodGet, "/api/v1/accountant/clients", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBackupRoundTripOverHTTP(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})
	token := registerAccount(t, router, "0912345678")

	w := doJSON(t, router, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"date":   "2025-03-15",
		"amount": 500_000,
		"type":   "INCOME",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/backup", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exportResp struct {
		Backup string `json:"backup"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exportResp))
	require.NotEmpty(t, exportResp.Backup)

	// Importing into the same account restores nothing new.
	w = doJSON(t, router, http.MethodPost, "/api/v1/backup", token, gin.H{"backup": exportResp.Backup})
	require.Equal(t, http.StatusOK, w.Code)
	var importResp struct {
		Restored int `json:"restored"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &importResp))
	assert.Zero(t, importResp.Restored)
}

func TestTaxReportDownload(t *testing.T) {
	router := newTestRouter(t, &scriptedExtractor{})
	token := registerAccount(t, router, "0912345678")

	// Without a profile the report is refused.
	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/tax", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/profile", token, gin.H{
		"name":          "Quán Cơm Tấm Cô Ba",
		"tax_id":        "0312345678",
		"address":       "12 Lê Lợi, Quận 1, TP.HCM",
		"industry":      "Quán ăn",
		"industry_code": "5610",
		"owner_name":    "Nguyễn Thị Ba",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/tax?year=2025", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bao-cao-thue-2025.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}
