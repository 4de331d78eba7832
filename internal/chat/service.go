package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vuongle/taxmate/internal/ai"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// fallbackReply is shown when the AI collaborator is unreachable. The chat
// must keep working for manual entry, so extraction failures never surface
// as errors to the user.
const fallbackReply = "Trợ lý AI hiện chưa sẵn sàng. Bạn có thể nhập thu chi thủ công bằng cách mô tả rõ ràng hơn.\n\n💡 Ví dụ: \"Thu 500k bán hàng\" hoặc \"Chi 200k tiền điện\""

// Extractor is the AI collaborator that turns a chat message into a reply
// plus an optional candidate transaction.
type Extractor interface {
	ExtractTransaction(ctx context.Context, message, imageBase64 string, profile *entity.BusinessProfile) (*ai.ExtractionResult, error)
}

// MessageStore persists the assistant conversation.
type MessageStore interface {
	CreateMessage(msg *entity.ChatMessage) error
	GetMessage(accountID, id string) (*entity.ChatMessage, error)
	ListMessages(accountID string) ([]entity.ChatMessage, error)
	ClearPending(accountID, id string) error
}

// TransactionCreator is the slice of the transaction repository the chat
// flow needs.
type TransactionCreator interface {
	Create(tx *sql.Tx, t *entity.Transaction) error
}

// Service runs the assistant chat flow: persist the user's message, ask
// the extractor, persist the reply, and commit candidate transactions to
// the ledger only on explicit confirmation.
type Service struct {
	messages  MessageStore
	ledger    TransactionCreator
	extractor Extractor
	logger    *zap.Logger
}

// NewService creates a new chat service
func NewService(messages MessageStore, ledger TransactionCreator, extractor Extractor, logger *zap.Logger) *Service {
	return &Service{
		messages:  messages,
		ledger:    ledger,
		extractor: extractor,
		logger:    logger,
	}
}

// History returns the full assistant conversation of an account.
func (s *Service) History(accountID string) ([]entity.ChatMessage, error) {
	return s.messages.ListMessages(accountID)
}

// SendMessage processes one user turn and returns the stored user message
// and the assistant reply.
func (s *Service) SendMessage(ctx context.Context, account *entity.UserAccount, text, imageBase64 string) (*entity.ChatMessage, *entity.ChatMessage, error) {
	now := time.Now()
	userMsg := &entity.ChatMessage{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Role:      entity.ChatRoleUser,
		Text:      text,
		ImageURL:  imageBase64,
		Timestamp: now,
	}
	if err := s.messages.CreateMessage(userMsg); err != nil {
		return nil, nil, err
	}

	reply := &entity.ChatMessage{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Role:      entity.ChatRoleModel,
		Timestamp: now.Add(time.Millisecond),
	}

	result, err := s.extractor.ExtractTransaction(ctx, text, imageBase64, account.Profile)
	if err != nil {
		// Degrade to manual entry, keep the conversation alive.
		s.logger.Warn("Extraction failed, sending fallback reply",
			zap.String("account_id", account.ID), zap.Error(err))
		reply.Text = fallbackReply
	} else {
		reply.Text = result.Reply
		if result.Transaction != nil {
			pending := *result.Transaction
			pending.ID = uuid.NewString()
			pending.AccountID = account.ID
			pending.Source = entity.SourceChat
			if imageBase64 != "" {
				pending.Source = entity.SourceImage
			}
			reply.Pending = &pending
			reply.ActionRequired = true
		}
	}

	if err := s.messages.CreateMessage(reply); err != nil {
		return nil, nil, err
	}
	return userMsg, reply, nil
}

// ConfirmPending commits the candidate transaction attached to a chat
// message into the ledger and clears it from the message.
func (s *Service) ConfirmPending(accountID, messageID string) (*entity.Transaction, error) {
	msg, err := s.messages.GetMessage(accountID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	if msg.Pending == nil {
		return nil, fmt.Errorf("message %s has no pending transaction", messageID)
	}

	tx := *msg.Pending
	tx.IsVerified = true
	tx.CreatedAt = time.Now()
	if err := s.ledger.Create(nil, &tx); err != nil {
		return nil, err
	}
	if err := s.messages.ClearPending(accountID, messageID); err != nil {
		return nil, err
	}

	s.logger.Info("Pending transaction confirmed",
		zap.String("account_id", accountID),
		zap.String("transaction_id", tx.ID),
		zap.Int64("amount", tx.Amount))
	return &tx, nil
}

// RejectPending discards the candidate transaction attached to a chat
// message without writing anything to the ledger.
func (s *Service) RejectPending(accountID, messageID string) error {
	msg, err := s.messages.GetMessage(accountID, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("message %s not found", messageID)
	}
	return s.messages.ClearPending(accountID, messageID)
}
