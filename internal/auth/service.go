package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/pkg/utils"
	"go.uber.org/zap"
)

// Service handles registration, login and session validation.
type Service struct {
	accounts   *repository.AccountRepository
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewService creates a new auth service
func NewService(accounts *repository.AccountRepository, sessionTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		accounts:   accounts,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates an account for a Vietnamese mobile number and opens a
// session. The phone number is validated and normalized first.
func (s *Service) Register(phone, password string) (*entity.UserAccount, *entity.Session, error) {
	cleaned, err := utils.ValidatePhoneNumber(phone)
	if err != nil {
		return nil, nil, err
	}
	if err := utils.ValidatePin(password); err != nil {
		return nil, nil, err
	}

	existing, err := s.accounts.GetByPhone(cleaned)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("số điện thoại này đã tồn tại trên hệ thống")
	}

	account := &entity.UserAccount{
		ID:           uuid.NewString(),
		PhoneNumber:  cleaned,
		PasswordHash: HashPassword(password),
		Role:         entity.RoleClient,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Account registered", zap.String("account_id", account.ID))
	return account, session, nil
}

// Login verifies credentials and opens a session. A legacy plaintext PIN
// that verifies successfully is upgraded to a salted hash in place.
func (s *Service) Login(phone, password string) (*entity.UserAccount, *entity.Session, error) {
	cleaned, err := utils.ValidatePhoneNumber(phone)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.GetByPhone(cleaned)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, fmt.Errorf("tài khoản không tồn tại")
	}
	if !VerifyPassword(password, account.PasswordHash) {
		return nil, nil, fmt.Errorf("mật khẩu không chính xác")
	}

	if !IsHashed(account.PasswordHash) {
		upgraded := HashPassword(password)
		if err := s.accounts.UpdatePasswordHash(account.ID, upgraded); err != nil {
			s.logger.Warn("Failed to upgrade legacy password hash",
				zap.String("account_id", account.ID), zap.Error(err))
		} else {
			account.PasswordHash = upgraded
		}
	}

	session, err := s.openSession(account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Account logged in", zap.String("account_id", account.ID))
	return account, session, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(token string) (*entity.UserAccount, error) {
	if token == "" {
		return nil, fmt.Errorf("missing session token")
	}

	session, err := s.accounts.GetSession(token, time.Now())
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session expired or unknown")
	}

	account, err := s.accounts.GetByID(session.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account no longer exists")
	}
	return account, nil
}

// Logout discards a session token.
func (s *Service) Logout(token string) error {
	return s.accounts.DeleteSession(token)
}

func (s *Service) openSession(accountID string) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.accounts.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}
