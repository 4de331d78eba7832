package tax

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vuongle/taxmate/internal/domain/entity"
)

// Summary is the presumptive-tax position of a business for one calendar
// year. It is derived on every call and never persisted.
type Summary struct {
	Year                     int             `json:"year"`
	YearlyIncome             int64           `json:"yearly_income"`
	YearlyExpense            int64           `json:"yearly_expense"`
	IsExempt                 bool            `json:"is_exempt"`
	TaxAmount                decimal.Decimal `json:"tax_amount"`
	ThresholdProgressPercent float64         `json:"threshold_progress_percent"`
	Bracket                  Bracket         `json:"bracket"`
}

// MonthBucket holds the income/expense totals of one calendar month, for
// the monthly chart. Bucketing uses the same year filter as Summarize so
// the chart always reconciles with the totals.
type MonthBucket struct {
	Month   time.Month `json:"month"`
	Income  int64      `json:"income"`
	Expense int64      `json:"expense"`
}

// Engine computes yearly tax summaries. It is stateless: every call
// re-filters the transaction set and re-classifies the industry, so a
// profile edit is reflected immediately.
type Engine struct {
	policy     Policy
	classifier *Classifier
}

// NewEngine creates a tax engine for the given policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{
		policy:     policy,
		classifier: NewClassifier(policy),
	}
}

// Classify exposes the engine's industry classifier.
func (e *Engine) Classify(industryText string) Bracket {
	return e.classifier.Classify(industryText)
}

// Summarize computes the tax position for one calendar year.
//
// Tax is owed on GROSS yearly revenue, never on net profit, and only once
// revenue exceeds the exemption threshold — at which point the whole
// revenue is taxed at the combined rate, not just the excess. That
// cliff-edge behavior mirrors the presumptive regime the product models.
func (e *Engine) Summarize(txs []entity.Transaction, year int, profile entity.BusinessProfile) Summary {
	var income, expense int64
	for i := range txs {
		t := &txs[i]
		if t.Date.Year() != year {
			continue
		}
		switch t.Type {
		case entity.TransactionIncome:
			income += t.Amount
		case entity.TransactionExpense:
			expense += t.Amount
		}
	}

	bracket := e.classifier.Classify(profile.Industry)
	exempt := income <= e.policy.ExemptionThreshold

	taxAmount := decimal.Zero
	if !exempt {
		taxAmount = decimal.NewFromInt(income).Mul(bracket.CombinedRate())
	}

	progress := float64(income) / float64(e.policy.ExemptionThreshold) * 100
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	return Summary{
		Year:                     year,
		YearlyIncome:             income,
		YearlyExpense:            expense,
		IsExempt:                 exempt,
		TaxAmount:                taxAmount,
		ThresholdProgressPercent: progress,
		Bracket:                  bracket,
	}
}

// MonthlyTotals buckets one year's transactions into a fixed 12-month
// series using the same calendar-year filter as Summarize.
func (e *Engine) MonthlyTotals(txs []entity.Transaction, year int) [12]MonthBucket {
	var buckets [12]MonthBucket
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}
	for i := range txs {
		t := &txs[i]
		if t.Date.Year() != year {
			continue
		}
		b := &buckets[int(t.Date.Month())-1]
		switch t.Type {
		case entity.TransactionIncome:
			b.Income += t.Amount
		case entity.TransactionExpense:
			b.Expense += t.Amount
		}
	}
	return buckets
}

// DefaultYear picks the year to show when none is selected: the year of
// the newest transaction when it lies in the future, otherwise the current
// calendar year.
func DefaultYear(txs []entity.Transaction, now time.Time) int {
	currentYear := now.Year()
	if len(txs) == 0 {
		return currentYear
	}
	maxYear := txs[0].Date.Year()
	for i := range txs {
		if y := txs[i].Date.Year(); y > maxYear {
			maxYear = y
		}
	}
	if maxYear > currentYear {
		return maxYear
	}
	return currentYear
}
