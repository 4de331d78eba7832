package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// BookingRepository tracks each client's progress through the accountant
// hand-off flow
type BookingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the booking of one account
func (r *BookingRepository) Get(accountID string) (*entity.Booking, error) {
	query := `SELECT account_id, accountant_id, step FROM bookings WHERE account_id = ?`

	var booking entity.Booking
	err := r.db.QueryRow(query, accountID).Scan(&booking.AccountID, &booking.AccountantID, &booking.Step)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get booking", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// Upsert stores the booking state for an account
func (r *BookingRepository) Upsert(booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (account_id, accountant_id, step, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			accountant_id = excluded.accountant_id,
			step = excluded.step,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query, booking.AccountID, booking.AccountantID, booking.Step, time.Now())
	if err != nil {
		r.logger.Error("Failed to upsert booking", zap.String("account_id", booking.AccountID), zap.Error(err))
		return fmt.Errorf("failed to upsert booking: %w", err)
	}
	return nil
}
