package entity

// BookingStep is the client's position in the accountant hand-off flow.
type BookingStep string

const (
	BookingIdle      BookingStep = "IDLE"
	BookingPayment   BookingStep = "PAYMENT"
	BookingMatching  BookingStep = "MATCHING_CHECKLIST"
	BookingConnected BookingStep = "CONNECTED"
)

// AccountantProfile is a licensed accountant offered to clients for the
// yearly filing service.
type AccountantProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`
	Reviews        int      `json:"reviews"`
	PricePerFiling int64    `json:"price_per_filing"`
	Tags           []string `json:"tags"`
	IsOnline       bool     `json:"is_online"`
	LicenseNumber  string   `json:"license_number"`
}

// Booking tracks a client's progress toward being connected with an
// accountant.
type Booking struct {
	AccountID    string      `json:"account_id"`
	AccountantID string      `json:"accountant_id"`
	Step         BookingStep `json:"step"`
}
