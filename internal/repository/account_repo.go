package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// AccountRepository handles user account and session database operations
type AccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account
func (r *AccountRepository) Create(account *entity.UserAccount) error {
	query := `
		INSERT INTO accounts (
			id, phone_number, password_hash, role, is_paid, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		account.ID,
		account.PhoneNumber,
		account.PasswordHash,
		account.Role,
		account.IsPaid,
		account.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", zap.Error(err))
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

const accountColumns = `
	id, phone_number, password_hash, role, is_paid,
	profile_name, profile_tax_id, profile_address, profile_industry,
	profile_industry_code, profile_owner_name, has_profile, created_at
`

func (r *AccountRepository) scanAccount(row *sql.Row) (*entity.UserAccount, error) {
	var account entity.UserAccount
	var profile entity.BusinessProfile
	var hasProfile bool

	err := row.Scan(
		&account.ID,
		&account.PhoneNumber,
		&account.PasswordHash,
		&account.Role,
		&account.IsPaid,
		&profile.Name,
		&profile.TaxID,
		&profile.Address,
		&profile.Industry,
		&profile.IndustryCode,
		&profile.OwnerName,
		&hasProfile,
		&account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if hasProfile {
		account.Profile = &profile
	}
	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(id string) (*entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	account, err := r.scanAccount(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Error("Failed to get account by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetByPhone retrieves an account by phone number
func (r *AccountRepository) GetByPhone(phone string) (*entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone_number = ?`

	account, err := r.scanAccount(r.db.QueryRow(query, phone))
	if err != nil {
		r.logger.Error("Failed to get account by phone", zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// UpdatePasswordHash replaces the stored password hash, used when a legacy
// plaintext PIN is upgraded after a successful login.
func (r *AccountRepository) UpdatePasswordHash(id, passwordHash string) error {
	_, err := r.db.Exec("UPDATE accounts SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		r.logger.Error("Failed to update password hash", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

// UpdateProfile saves the business profile
func (r *AccountRepository) UpdateProfile(id string, profile *entity.BusinessProfile) error {
	query := `
		UPDATE accounts SET
			profile_name = ?, profile_tax_id = ?, profile_address = ?,
			profile_industry = ?, profile_industry_code = ?, profile_owner_name = ?,
			has_profile = 1
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		profile.Name,
		profile.TaxID,
		profile.Address,
		profile.Industry,
		profile.IndustryCode,
		profile.OwnerName,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// SetPaid marks the accountant service as paid for
func (r *AccountRepository) SetPaid(id string, paid bool) error {
	_, err := r.db.Exec("UPDATE accounts SET is_paid = ? WHERE id = ?", paid, id)
	if err != nil {
		r.logger.Error("Failed to set paid flag", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set paid flag: %w", err)
	}
	return nil
}

// ListClients returns all client accounts, for the accountant roster view
func (r *AccountRepository) ListClients() ([]entity.UserAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = ? ORDER BY created_at`

	rows, err := r.db.Query(query, entity.RoleClient)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var accounts []entity.UserAccount
	for rows.Next() {
		var account entity.UserAccount
		var profile entity.BusinessProfile
		var hasProfile bool

		if err := rows.Scan(
			&account.ID,
			&account.PhoneNumber,
			&account.PasswordHash,
			&account.Role,
			&account.IsPaid,
			&profile.Name,
			&profile.TaxID,
			&profile.Address,
			&profile.Industry,
			&profile.IndustryCode,
			&profile.OwnerName,
			&hasProfile,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		if hasProfile {
			p := profile
			account.Profile = &p
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CreateSession stores a new session token
func (r *AccountRepository) CreateSession(session *entity.Session) error {
	query := `INSERT INTO sessions (token, account_id, expires_at, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.Exec(query, session.Token, session.AccountID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create session", zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a non-expired session by token
func (r *AccountRepository) GetSession(token string, now time.Time) (*entity.Session, error) {
	query := `SELECT token, account_id, expires_at, created_at FROM sessions WHERE token = ? AND expires_at > ?`

	var session entity.Session
	err := r.db.QueryRow(query, token, now).Scan(
		&session.Token,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.Error(err))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session token at logout
func (r *AccountRepository) DeleteSession(token string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		r.logger.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
