package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/pkg/database"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.Run(Migrations))
	return db
}

func newTestAccount(t *testing.T, db *database.DB) (*AccountRepository, *entity.UserAccount) {
	t.Helper()

	repo := NewAccountRepository(db.DB, zap.NewNop())
	account := &entity.UserAccount{
		ID:           "acc-1",
		PhoneNumber:  "0912345678",
		PasswordHash: "salt:abcdef",
		Role:         entity.RoleClient,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(account))
	return repo, account
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second run must skip everything already applied.
	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.Run(Migrations))
}

func TestAccountLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo, account := newTestAccount(t, db)

	loaded, err := repo.GetByPhone("0912345678")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, account.ID, loaded.ID)
	assert.Nil(t, loaded.Profile, "no profile before onboarding")

	missing, err := repo.GetByPhone("0987654321")
	require.NoError(t, err)
	assert.Nil(t, missing)

	profile := &entity.BusinessProfile{
		Name:         "Quán Cơm Tấm Cô Ba",
		TaxID:        "0312345678",
		Address:      "12 Lê Lợi, Quận 1, TP.HCM",
		Industry:     "Quán ăn",
		IndustryCode: "5610",
		OwnerName:    "Nguyễn Thị Ba",
	}
	require.NoError(t, repo.UpdateProfile(account.ID, profile))

	loaded, err = repo.GetByID(account.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Quán ăn", loaded.Profile.Industry)

	assert.Error(t, repo.UpdateProfile("missing", profile))
}

func TestSessionExpiry(t *testing.T) {
	db := newTestDB(t)
	repo, account := newTestAccount(t, db)

	now := time.Now()
	session := &entity.Session{
		Token:     "token-1",
		AccountID: account.ID,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.CreateSession(session))

	live, err := repo.GetSession("token-1", now)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, account.ID, live.AccountID)

	expired, err := repo.GetSession("token-1", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, expired, "expired sessions must not resolve")

	require.NoError(t, repo.DeleteSession("token-1"))
	gone, err := repo.GetSession("token-1", now)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTransactionLifecycle(t *testing.T) {
	db := newTestDB(t)
	_, account := newTestAccount(t, db)
	repo := NewTransactionRepository(db.DB, zap.NewNop())

	older := &entity.Transaction{
		ID:        "tx-1",
		AccountID: account.ID,
		Date:      time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		Amount:    500_000,
		Type:      entity.TransactionIncome,
		Category:  "Doanh thu",
		RiskLevel: entity.RiskSafe,
		Source:    entity.SourceManual,
		CreatedAt: time.Now(),
	}
	newer := &entity.Transaction{
		ID:        "tx-2",
		AccountID: account.ID,
		Date:      time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		Amount:    200_000,
		Type:      entity.TransactionExpense,
		Category:  "Tiền điện",
		RiskLevel: entity.RiskWarning,
		RiskNote:  "Chi phí sinh hoạt cá nhân?",
		Source:    entity.SourceChat,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(nil, older))
	require.NoError(t, repo.Create(nil, newer))

	txs, err := repo.ListByAccount(account.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-2", txs[0].ID, "newest first")
	assert.Equal(t, entity.RiskWarning, txs[0].RiskLevel)

	loaded, err := repo.GetByID(account.ID, "tx-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(500_000), loaded.Amount)

	foreign, err := repo.GetByID("other-account", "tx-1")
	require.NoError(t, err)
	assert.Nil(t, foreign, "transactions are scoped to their account")

	require.NoError(t, repo.Delete(account.ID, "tx-1"))
	assert.Error(t, repo.Delete(account.ID, "tx-1"), "double delete must fail")
}

func TestChatMessagePendingRoundTrip(t *testing.T) {
	db := newTestDB(t)
	_, account := newTestAccount(t, db)
	repo := NewChatRepository(db.DB, zap.NewNop())

	pending := &entity.Transaction{
		ID:        "tx-pending",
		AccountID: account.ID,
		Date:      time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Amount:    300_000,
		Type:      entity.TransactionIncome,
		Category:  "Doanh thu",
	}
	msg := &entity.ChatMessage{
		ID:             "msg-1",
		AccountID:      account.ID,
		Role:           entity.ChatRoleModel,
		Text:           "Vui lòng xác nhận:",
		Pending:        pending,
		ActionRequired: true,
		Timestamp:      time.Now(),
	}
	require.NoError(t, repo.CreateMessage(msg))

	loaded, err := repo.GetMessage(account.ID, "msg-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.Pending)
	assert.Equal(t, int64(300_000), loaded.Pending.Amount)
	assert.True(t, loaded.ActionRequired)

	require.NoError(t, repo.ClearPending(account.ID, "msg-1"))
	loaded, err = repo.GetMessage(account.ID, "msg-1")
	require.NoError(t, err)
	assert.Nil(t, loaded.Pending)
	assert.False(t, loaded.ActionRequired)

	msgs, err := repo.ListMessages(account.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestP2PMessages(t *testing.T) {
	db := newTestDB(t)
	_, account := newTestAccount(t, db)
	repo := NewChatRepository(db.DB, zap.NewNop())

	first := &entity.P2PMessage{
		ID: "p2p-1", AccountID: account.ID, SenderID: account.ID,
		Text: "Chị ơi, em cần quyết toán", Timestamp: time.Now(),
	}
	second := &entity.P2PMessage{
		ID: "p2p-2", AccountID: account.ID, SenderID: "accountant-1",
		Text: "Chào em", Timestamp: time.Now().Add(time.Second),
	}
	require.NoError(t, repo.CreateP2PMessage(first))
	require.NoError(t, repo.CreateP2PMessage(second))

	require.NoError(t, repo.MarkP2PRead(account.ID, account.ID))

	msgs, err := repo.ListP2PMessages(account.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.False(t, msgs[0].Read, "reader's own message stays untouched")
	assert.True(t, msgs[1].Read)
}

func TestBookingUpsert(t *testing.T) {
	db := newTestDB(t)
	_, account := newTestAccount(t, db)
	repo := NewBookingRepository(db.DB, zap.NewNop())

	missing, err := repo.Get(account.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	booking := &entity.Booking{
		AccountID:    account.ID,
		AccountantID: "accountant-1",
		Step:         entity.BookingPayment,
	}
	require.NoError(t, repo.Upsert(booking))

	booking.Step = entity.BookingConnected
	require.NoError(t, repo.Upsert(booking))

	loaded, err := repo.Get(account.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, entity.BookingConnected, loaded.Step)
}
