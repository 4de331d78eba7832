package tax

import "github.com/shopspring/decimal"

// Bracket is a presumptive-tax rate bracket from Appendix I of Circular
// 40/2021/TT-BTC. The combined rate applied to gross revenue is the sum of
// the VAT and PIT components.
type Bracket struct {
	VATRate    decimal.Decimal `json:"vat_rate"`
	PITRate    decimal.Decimal `json:"pit_rate"`
	GroupLabel string          `json:"group_label"`
	GroupCode  string          `json:"group_code"`
}

// CombinedRate returns the total rate applied to gross yearly revenue.
func (b Bracket) CombinedRate() decimal.Decimal {
	return b.VATRate.Add(b.PITRate)
}
