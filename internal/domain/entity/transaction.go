package entity

import "time"

// TransactionType distinguishes revenue from spending. A transaction is
// always exactly one of the two.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// RiskLevel is the tax-risk flag assigned by the AI extractor when a
// transaction is captured from chat. It is display metadata only; the tax
// engine never reads it.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "SAFE"
	RiskWarning RiskLevel = "WARNING"
	RiskHigh    RiskLevel = "HIGH"
)

// TransactionSource records how a transaction entered the ledger.
type TransactionSource string

const (
	SourceChat   TransactionSource = "CHAT"
	SourceImage  TransactionSource = "IMAGE"
	SourceManual TransactionSource = "MANUAL"
)

// Transaction is a single ledger entry of a household business.
// Amounts are Vietnamese đồng, whole units only.
type Transaction struct {
	ID          string            `json:"id"`
	AccountID   string            `json:"account_id"`
	Date        time.Time         `json:"date"`
	Amount      int64             `json:"amount"`
	Description string            `json:"description"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category"`
	RiskLevel   RiskLevel         `json:"risk_level"`
	RiskNote    string            `json:"risk_note,omitempty"`
	Source      TransactionSource `json:"source,omitempty"`
	IsVerified  bool              `json:"is_verified"`
	CreatedAt   time.Time         `json:"created_at"`
}

// IsIncome reports whether the transaction is revenue.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionIncome
}
