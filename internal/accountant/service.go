package accountant

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// BookingStore persists hand-off progress.
type BookingStore interface {
	Get(accountID string) (*entity.Booking, error)
	Upsert(booking *entity.Booking) error
}

// AccountStore is the slice of the account repository the hand-off needs.
type AccountStore interface {
	GetByID(id string) (*entity.UserAccount, error)
	SetPaid(id string, paid bool) error
	ListClients() ([]entity.UserAccount, error)
}

// P2PStore persists the direct client-accountant channel.
type P2PStore interface {
	CreateP2PMessage(msg *entity.P2PMessage) error
	ListP2PMessages(accountID string) ([]entity.P2PMessage, error)
	MarkP2PRead(accountID, readerID string) error
}

// Config describes the accountant offered to clients.
type Config struct {
	Name           string
	LicenseNumber  string
	PricePerFiling int64
}

// Service runs the accountant hand-off: a client books the filing
// service, pays, passes the matching checklist and is then connected to
// the accountant over a direct message channel.
type Service struct {
	bookings BookingStore
	accounts AccountStore
	p2p      P2PStore
	profile  entity.AccountantProfile
	logger   *zap.Logger
}

// NewService creates a new accountant service
func NewService(bookings BookingStore, accounts AccountStore, p2p P2PStore, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		accounts: accounts,
		p2p:      p2p,
		profile: entity.AccountantProfile{
			ID:             "accountant-1",
			Name:           cfg.Name,
			Rating:         4.9,
			Reviews:        127,
			PricePerFiling: cfg.PricePerFiling,
			Tags:           []string{"Hộ kinh doanh", "Thuế khoán", "Quyết toán năm"},
			IsOnline:       true,
			LicenseNumber:  cfg.LicenseNumber,
		},
		logger: logger,
	}
}

// Matched returns the accountant offered to every client.
func (s *Service) Matched() entity.AccountantProfile {
	return s.profile
}

// Status returns the client's current booking. A paid account with no
// recorded progress is treated as already connected, so a reinstalled
// client does not have to pay twice.
func (s *Service) Status(accountID string) (*entity.Booking, error) {
	booking, err := s.bookings.Get(accountID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		booking = &entity.Booking{
			AccountID:    accountID,
			AccountantID: s.profile.ID,
			Step:         entity.BookingIdle,
		}
	}

	if booking.Step == entity.BookingIdle {
		account, err := s.accounts.GetByID(accountID)
		if err != nil {
			return nil, err
		}
		if account != nil && account.IsPaid {
			booking.Step = entity.BookingConnected
			if err := s.bookings.Upsert(booking); err != nil {
				return nil, err
			}
		}
	}
	return booking, nil
}

// Book moves the client from IDLE to PAYMENT.
func (s *Service) Book(accountID string) (*entity.Booking, error) {
	return s.advance(accountID, entity.BookingIdle, entity.BookingPayment)
}

// Pay records the payment, marks the account as paid and moves to the
// matching checklist.
func (s *Service) Pay(accountID string) (*entity.Booking, error) {
	booking, err := s.advance(accountID, entity.BookingPayment, entity.BookingMatching)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetPaid(accountID, true); err != nil {
		return nil, err
	}
	s.logger.Info("Filing service paid",
		zap.String("account_id", accountID),
		zap.Int64("price", s.profile.PricePerFiling))
	return booking, nil
}

// Connect completes the matching checklist and opens the direct channel.
func (s *Service) Connect(accountID string) (*entity.Booking, error) {
	return s.advance(accountID, entity.BookingMatching, entity.BookingConnected)
}

func (s *Service) advance(accountID string, from, to entity.BookingStep) (*entity.Booking, error) {
	booking, err := s.Status(accountID)
	if err != nil {
		return nil, err
	}
	if booking.Step != from {
		return nil, fmt.Errorf("cannot move booking from %s to %s", booking.Step, to)
	}
	booking.Step = to
	if err := s.bookings.Upsert(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// SendMessage posts into the direct channel of a client. senderID is
// either the client or the accountant; the channel only exists once the
// booking is connected.
func (s *Service) SendMessage(accountID, senderID, text string) (*entity.P2PMessage, error) {
	booking, err := s.Status(accountID)
	if err != nil {
		return nil, err
	}
	if booking.Step != entity.BookingConnected {
		return nil, fmt.Errorf("booking is not connected yet")
	}

	msg := &entity.P2PMessage{
		ID:        uuid.NewString(),
		AccountID: accountID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := s.p2p.CreateP2PMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns the direct channel of a client and marks the other
// side's messages as read.
func (s *Service) Messages(accountID, readerID string) ([]entity.P2PMessage, error) {
	if err := s.p2p.MarkP2PRead(accountID, readerID); err != nil {
		return nil, err
	}
	return s.p2p.ListP2PMessages(accountID)
}

// Clients returns the roster for the accountant's own view.
func (s *Service) Clients() ([]entity.UserAccount, error) {
	return s.accounts.ListClients()
}
