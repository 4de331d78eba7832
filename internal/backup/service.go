package backup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// snapshotVersion guards against restoring blobs from a newer schema.
const snapshotVersion = 1

// Snapshot is the decrypted backup payload: everything one account needs
// to move to a new device.
type Snapshot struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Account      *entity.UserAccount  `json:"account"`
	Transactions []entity.Transaction `json:"transactions"`
	ChatMessages []entity.ChatMessage `json:"chat_messages"`
	Booking      *entity.Booking      `json:"booking,omitempty"`
}

// AccountReader is the slice of the account repository a backup needs.
type AccountReader interface {
	GetByID(id string) (*entity.UserAccount, error)
}

// LedgerStore reads and restores the transaction ledger.
type LedgerStore interface {
	ListByAccount(accountID string) ([]entity.Transaction, error)
	GetByID(accountID, id string) (*entity.Transaction, error)
	Create(tx *sql.Tx, t *entity.Transaction) error
}

// MessageReader reads the assistant conversation.
type MessageReader interface {
	ListMessages(accountID string) ([]entity.ChatMessage, error)
}

// BookingReader reads the accountant hand-off state.
type BookingReader interface {
	Get(accountID string) (*entity.Booking, error)
}

// Service exports an account as an encrypted blob and restores ledger
// entries from a previously exported one.
type Service struct {
	codec    *Codec
	accounts AccountReader
	ledger   LedgerStore
	messages MessageReader
	bookings BookingReader
	logger   *zap.Logger
}

// NewService creates a new backup service
func NewService(codec *Codec, accounts AccountReader, ledger LedgerStore, messages MessageReader, bookings BookingReader, logger *zap.Logger) *Service {
	return &Service{
		codec:    codec,
		accounts: accounts,
		ledger:   ledger,
		messages: messages,
		bookings: bookings,
		logger:   logger,
	}
}

// Export serializes the account's data and seals it with the codec.
func (s *Service) Export(accountID string) (string, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("account %s not found", accountID)
	}

	txs, err := s.ledger.ListByAccount(accountID)
	if err != nil {
		return "", err
	}
	msgs, err := s.messages.ListMessages(accountID)
	if err != nil {
		return "", err
	}
	booking, err := s.bookings.Get(accountID)
	if err != nil {
		return "", err
	}

	snapshot := Snapshot{
		Version:      snapshotVersion,
		ExportedAt:   time.Now(),
		Account:      account,
		Transactions: txs,
		ChatMessages: msgs,
		Booking:      booking,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	blob, err := s.codec.Encrypt(payload)
	if err != nil {
		return "", err
	}

	s.logger.Info("Backup exported",
		zap.String("account_id", accountID),
		zap.Int("transactions", len(txs)),
		zap.Int("messages", len(msgs)))
	return blob, nil
}

// Import decrypts a blob and restores any ledger entries the account does
// not already have. Entries already present are skipped so a restore is
// idempotent. It returns the decoded snapshot and the number of restored
// transactions.
func (s *Service) Import(accountID, blob string) (*Snapshot, int, error) {
	payload, err := s.codec.Decrypt(blob)
	if err != nil {
		return nil, 0, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, 0, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Version > snapshotVersion {
		return nil, 0, fmt.Errorf("backup version %d is newer than supported version %d", snapshot.Version, snapshotVersion)
	}
	if snapshot.Account == nil || snapshot.Account.ID != accountID {
		return nil, 0, fmt.Errorf("backup belongs to a different account")
	}

	restored := 0
	for i := range snapshot.Transactions {
		t := snapshot.Transactions[i]
		existing, err := s.ledger.GetByID(accountID, t.ID)
		if err != nil {
			return nil, restored, err
		}
		if existing != nil {
			continue
		}
		t.AccountID = accountID
		if err := s.ledger.Create(nil, &t); err != nil {
			return nil, restored, err
		}
		restored++
	}

	s.logger.Info("Backup imported",
		zap.String("account_id", accountID),
		zap.Int("restored", restored),
		zap.Int("skipped", len(snapshot.Transactions)-restored))
	return &snapshot, restored, nil
}
