package accountant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

type fakeBookingStore struct {
	bookings map[string]*entity.Booking
}

func (f *fakeBookingStore) Get(accountID string) (*entity.Booking, error) {
	if b, ok := f.bookings[accountID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingStore) Upsert(booking *entity.Booking) error {
	copied := *booking
	f.bookings[booking.AccountID] = &copied
	return nil
}

type fakeAccountStore struct {
	accounts map[string]*entity.UserAccount
}

func (f *fakeAccountStore) GetByID(id string) (*entity.UserAccount, error) {
	if a, ok := f.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAccountStore) SetPaid(id string, paid bool) error {
	if a, ok := f.accounts[id]; ok {
		a.IsPaid = paid
	}
	return nil
}

func (f *fakeAccountStore) ListClients() ([]entity.UserAccount, error) {
	var out []entity.UserAccount
	for _, a := range f.accounts {
		if a.Role == entity.RoleClient {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeP2PStore struct {
	messages []entity.P2PMessage
}

func (f *fakeP2PStore) CreateP2PMessage(msg *entity.P2PMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeP2PStore) ListP2PMessages(accountID string) ([]entity.P2PMessage, error) {
	var out []entity.P2PMessage
	for _, m := range f.messages {
		if m.AccountID == accountID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeP2PStore) MarkP2PRead(accountID, readerID string) error {
	for i := range f.messages {
		if f.messages[i].AccountID == accountID && f.messages[i].SenderID != readerID {
			f.messages[i].Read = true
		}
	}
	return nil
}

func newTestService() (*Service, *fakeAccountStore, *fakeP2PStore) {
	accounts := &fakeAccountStore{accounts: map[string]*entity.UserAccount{
		"client-1": {ID: "client-1", Role: entity.RoleClient},
	}}
	p2p := &fakeP2PStore{}
	svc := NewService(
		&fakeBookingStore{bookings: make(map[string]*entity.Booking)},
		accounts,
		p2p,
		Config{Name: "Chị Mai Kế Toán", LicenseNumber: "KTV-0123/KTV", PricePerFiling: 199_000},
		zap.NewNop(),
	)
	return svc, accounts, p2p
}

func TestBookingHappyPath(t *testing.T) {
	svc, accounts, _ := newTestService()

	status, err := svc.Status("client-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingIdle, status.Step)

	booking, err := svc.Book("client-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingPayment, booking.Step)

	booking, err = svc.Pay("client-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingMatching, booking.Step)
	assert.True(t, accounts.accounts["client-1"].IsPaid, "payment must mark the account paid")

	booking, err = svc.Connect("client-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingConnected, booking.Step)
}

func TestBookingRejectsSkippedSteps(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Pay("client-1")
	assert.Error(t, err, "cannot pay before booking")

	_, err = svc.Connect("client-1")
	assert.Error(t, err, "cannot connect before the checklist")
}

func TestPaidAccountResumesConnected(t *testing.T) {
	svc, accounts, _ := newTestService()
	accounts.accounts["client-1"].IsPaid = true

	status, err := svc.Status("client-1")
	require.NoError(t, err)

	assert.Equal(t, entity.BookingConnected, status.Step,
		"a paid account with no booking record must not pay again")
}

func TestP2PMessagesRequireConnection(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SendMessage("client-1", "client-1", "xin chào")
	assert.Error(t, err)
}

func TestP2PMessageFlow(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Book("client-1")
	require.NoError(t, err)
	_, err = svc.Pay("client-1")
	require.NoError(t, err)
	_, err = svc.Connect("client-1")
	require.NoError(t, err)

	_, err = svc.SendMessage("client-1", "client-1", "Chị ơi, em cần quyết toán 2025")
	require.NoError(t, err)
	_, err = svc.SendMessage("client-1", "accountant-1", "Chào em, chị xem ngay đây")
	require.NoError(t, err)

	// The client reading the channel marks the accountant's message read.
	msgs, err := svc.Messages("client-1", "client-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.False(t, msgs[0].Read, "own message untouched")
	assert.True(t, msgs[1].Read)
}

func TestMatchedAccountant(t *testing.T) {
	svc, _, _ := newTestService()

	profile := svc.Matched()
	assert.Equal(t, "Chị Mai Kế Toán", profile.Name)
	assert.Equal(t, int64(199_000), profile.PricePerFiling)
	assert.True(t, profile.IsOnline)
}
