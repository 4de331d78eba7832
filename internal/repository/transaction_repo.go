package repository

import (
	"database/sql"
	"fmt"

	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// TransactionRepository handles ledger database operations
type TransactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(tx *sql.Tx, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, account_id, date, amount, description, type, category,
			risk_level, risk_note, source, is_verified, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []interface{}{
		t.ID, t.AccountID, t.Date, t.Amount, t.Description, t.Type,
		t.Category, t.RiskLevel, t.RiskNote, t.Source, t.IsVerified, t.CreatedAt,
	}

	var err error
	if tx != nil {
		_, err = tx.Exec(query, args...)
	} else {
		_, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create transaction", zap.Error(err))
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

const transactionColumns = `
	id, account_id, date, amount, description, type, category,
	risk_level, risk_note, source, is_verified, created_at
`

func scanTransactions(rows *sql.Rows) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.Date, &t.Amount, &t.Description, &t.Type,
			&t.Category, &t.RiskLevel, &t.RiskNote, &t.Source, &t.IsVerified, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListByAccount returns every transaction of one account, newest first
func (r *TransactionRepository) ListByAccount(accountID string) ([]entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = ? ORDER BY date DESC`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByID retrieves one transaction scoped to an account
func (r *TransactionRepository) GetByID(accountID, id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = ? AND id = ?`

	var t entity.Transaction
	err := r.db.QueryRow(query, accountID, id).Scan(
		&t.ID, &t.AccountID, &t.Date, &t.Amount, &t.Description, &t.Type,
		&t.Category, &t.RiskLevel, &t.RiskNote, &t.Source, &t.IsVerified, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get transaction", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// Delete removes a transaction scoped to an account
func (r *TransactionRepository) Delete(accountID, id string) error {
	result, err := r.db.Exec("DELETE FROM transactions WHERE account_id = ? AND id = ?", accountID, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	return nil
}
