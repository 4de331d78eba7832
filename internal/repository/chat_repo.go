package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// ChatRepository handles assistant-chat and client-accountant messages
type ChatRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *sql.DB, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMessage inserts a chat message. A pending candidate transaction is
// stored as JSON alongside the message.
func (r *ChatRepository) CreateMessage(msg *entity.ChatMessage) error {
	var pendingData sql.NullString
	if msg.Pending != nil {
		data, err := json.Marshal(msg.Pending)
		if err != nil {
			return fmt.Errorf("failed to marshal pending transaction: %w", err)
		}
		pendingData = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO chat_messages (
			id, account_id, role, text, image_url, pending_data, action_required, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		msg.ID, msg.AccountID, msg.Role, msg.Text, msg.ImageURL,
		pendingData, msg.ActionRequired, msg.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create chat message", zap.Error(err))
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// GetMessage retrieves one chat message scoped to an account
func (r *ChatRepository) GetMessage(accountID, id string) (*entity.ChatMessage, error) {
	query := `
		SELECT id, account_id, role, text, image_url, pending_data, action_required, timestamp
		FROM chat_messages WHERE account_id = ? AND id = ?
	`

	msg, err := scanChatMessage(r.db.QueryRow(query, accountID, id))
	if err != nil {
		r.logger.Error("Failed to get chat message", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get chat message: %w", err)
	}
	return msg, nil
}

func scanChatMessage(row *sql.Row) (*entity.ChatMessage, error) {
	var msg entity.ChatMessage
	var pendingData sql.NullString

	err := row.Scan(
		&msg.ID, &msg.AccountID, &msg.Role, &msg.Text, &msg.ImageURL,
		&pendingData, &msg.ActionRequired, &msg.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if pendingData.Valid {
		var pending entity.Transaction
		if err := json.Unmarshal([]byte(pendingData.String), &pending); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pending transaction: %w", err)
		}
		msg.Pending = &pending
	}
	return &msg, nil
}

// ListMessages returns the assistant conversation of one account in order
func (r *ChatRepository) ListMessages(accountID string) ([]entity.ChatMessage, error) {
	query := `
		SELECT id, account_id, role, text, image_url, pending_data, action_required, timestamp
		FROM chat_messages WHERE account_id = ? ORDER BY timestamp
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list chat messages", zap.Error(err))
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []entity.ChatMessage
	for rows.Next() {
		var msg entity.ChatMessage
		var pendingData sql.NullString

		if err := rows.Scan(
			&msg.ID, &msg.AccountID, &msg.Role, &msg.Text, &msg.ImageURL,
			&pendingData, &msg.ActionRequired, &msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		if pendingData.Valid {
			var pending entity.Transaction
			if err := json.Unmarshal([]byte(pendingData.String), &pending); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pending transaction: %w", err)
			}
			msg.Pending = &pending
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// ClearPending removes the candidate transaction from a message once it
// has been confirmed or rejected.
func (r *ChatRepository) ClearPending(accountID, id string) error {
	query := `UPDATE chat_messages SET pending_data = NULL, action_required = 0 WHERE account_id = ? AND id = ?`
	if _, err := r.db.Exec(query, accountID, id); err != nil {
		r.logger.Error("Failed to clear pending transaction", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to clear pending transaction: %w", err)
	}
	return nil
}

// CreateP2PMessage inserts a message into the client-accountant channel
func (r *ChatRepository) CreateP2PMessage(msg *entity.P2PMessage) error {
	query := `
		INSERT INTO p2p_messages (id, account_id, sender_id, text, read, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, msg.ID, msg.AccountID, msg.SenderID, msg.Text, msg.Read, msg.Timestamp)
	if err != nil {
		r.logger.Error("Failed to create p2p message", zap.Error(err))
		return fmt.Errorf("failed to create p2p message: %w", err)
	}
	return nil
}

// ListP2PMessages returns the client-accountant conversation in order
func (r *ChatRepository) ListP2PMessages(accountID string) ([]entity.P2PMessage, error) {
	query := `
		SELECT id, account_id, sender_id, text, read, timestamp
		FROM p2p_messages WHERE account_id = ? ORDER BY timestamp
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list p2p messages", zap.Error(err))
		return nil, fmt.Errorf("failed to list p2p messages: %w", err)
	}
	defer rows.Close()

	var msgs []entity.P2PMessage
	for rows.Next() {
		var msg entity.P2PMessage
		if err := rows.Scan(&msg.ID, &msg.AccountID, &msg.SenderID, &msg.Text, &msg.Read, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan p2p message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkP2PRead marks every message in the channel not sent by readerID as read
func (r *ChatRepository) MarkP2PRead(accountID, readerID string) error {
	query := `UPDATE p2p_messages SET read = 1 WHERE account_id = ? AND sender_id != ?`
	if _, err := r.db.Exec(query, accountID, readerID); err != nil {
		r.logger.Error("Failed to mark p2p messages read", zap.Error(err))
		return fmt.Errorf("failed to mark p2p messages read: %w", err)
	}
	return nil
}
