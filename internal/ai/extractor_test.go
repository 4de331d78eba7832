package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuongle/taxmate/internal/domain/entity"
)

func TestParseExtractionPlainJSON(t *testing.T) {
	content := `{
		"reply": "Tôi đã lập phiếu này, bạn kiểm tra lại nhé?",
		"extracted_transaction": {
			"date": "2025-01-19",
			"amount": 500000,
			"description": "Bán hàng tạp hóa",
			"type": "INCOME",
			"category": "Doanh thu bán hàng",
			"risk_level": "SAFE",
			"risk_note": ""
		}
	}`

	result, err := parseExtraction(content)
	require.NoError(t, err)

	assert.Equal(t, "Tôi đã lập phiếu này, bạn kiểm tra lại nhé?", result.Reply)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, int64(500_000), result.Transaction.Amount)
	assert.Equal(t, entity.TransactionIncome, result.Transaction.Type)
	assert.Equal(t, entity.RiskSafe, result.Transaction.RiskLevel)
	assert.Equal(t, 2025, result.Transaction.Date.Year())
	assert.Equal(t, time.January, result.Transaction.Date.Month())
}

func TestParseExtractionMarkdownFenced(t *testing.T) {
	content := "Here you go:\n```json\n" +
		`{"reply": "Vui lòng xác nhận thông tin dưới đây:", "extracted_transaction": {"date": "2026-03-02", "amount": 200000, "description": "Tiền điện", "type": "EXPENSE", "category": "Điện nước", "risk_level": "WARNING", "risk_note": "Cần hóa đơn"}}` +
		"\n```"

	result, err := parseExtraction(content)
	require.NoError(t, err)

	require.NotNil(t, result.Transaction)
	assert.Equal(t, entity.TransactionExpense, result.Transaction.Type)
	assert.Equal(t, entity.RiskWarning, result.Transaction.RiskLevel)
	assert.Equal(t, 2026, result.Transaction.Date.Year())
}

func TestParseExtractionWithoutTransaction(t *testing.T) {
	content := `{"reply": "Chào bạn, tôi có thể giúp gì?", "extracted_transaction": null}`

	result, err := parseExtraction(content)
	require.NoError(t, err)

	assert.Equal(t, "Chào bạn, tôi có thể giúp gì?", result.Reply)
	assert.Nil(t, result.Transaction)
}

func TestParseExtractionDropsMalformedCandidate(t *testing.T) {
	// A bad date must not lose the reply.
	content := `{"reply": "ok", "extracted_transaction": {"date": "19/01/2025", "amount": 1000, "description": "x", "type": "INCOME", "category": "c", "risk_level": "SAFE"}}`

	result, err := parseExtraction(content)
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Reply)
	assert.Nil(t, result.Transaction)
}

func TestParseExtractionUnknownRiskDefaultsToSafe(t *testing.T) {
	content := `{"reply": "ok", "extracted_transaction": {"date": "2025-05-05", "amount": 1000, "description": "x", "type": "expense", "category": "c", "risk_level": "whatever"}}`

	result, err := parseExtraction(content)
	require.NoError(t, err)

	require.NotNil(t, result.Transaction)
	assert.Equal(t, entity.TransactionExpense, result.Transaction.Type, "type is case-insensitive")
	assert.Equal(t, entity.RiskSafe, result.Transaction.RiskLevel)
}

func TestParseExtractionGarbage(t *testing.T) {
	_, err := parseExtraction("no json here at all")
	assert.Error(t, err)
}

func TestParseLicense(t *testing.T) {
	content := "```json\n" + `{
		"name": "HỘ KINH DOANH MINH LONG",
		"tax_id": "0315758623-001",
		"address": "12 Lê Lợi, Quận 1, TP.HCM",
		"industry": "Bán lẻ hàng tạp hóa",
		"industry_code": "4711",
		"owner_name": "Nguyễn Văn Long"
	}` + "\n```"

	profile, err := parseLicense(content)
	require.NoError(t, err)

	assert.Equal(t, "HỘ KINH DOANH MINH LONG", profile.Name)
	assert.Equal(t, "0315758623-001", profile.TaxID)
	assert.Equal(t, "4711", profile.IndustryCode)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare object",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "object inside prose",
			content: `sure: {"a": {"b": 2}} done`,
			want:    `{"a": {"b": 2}}`,
		},
		{
			name:    "braces inside strings ignored",
			content: `{"a": "}{"}`,
			want:    `{"a": "}{"}`,
		},
		{
			name:    "no object",
			content: "nothing",
			want:    "",
		},
		{
			name:    "unbalanced",
			content: `{"a": 1`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content))
		})
	}
}
