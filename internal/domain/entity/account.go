package entity

import "time"

// Role separates business owners from the accountants who serve them.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleAccountant Role = "ACCOUNTANT"
)

// UserAccount is a registered user keyed by phone number.
type UserAccount struct {
	ID           string           `json:"id"`
	PhoneNumber  string           `json:"phone_number"`
	PasswordHash string           `json:"-"`
	Role         Role             `json:"role"`
	Profile      *BusinessProfile `json:"profile,omitempty"`
	IsPaid       bool             `json:"is_paid"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Session is an opaque bearer token issued at login.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
