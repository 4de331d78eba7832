package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGroups(t *testing.T) {
	classifier := NewClassifier(DefaultPolicy())

	tests := []struct {
		name         string
		industry     string
		wantCode     string
		wantCombined string
	}{
		{
			name:         "retail falls into group 1 by default",
			industry:     "Bán lẻ hàng tạp hóa",
			wantCode:     "Nhóm 1",
			wantCombined: "0.015",
		},
		{
			name:         "empty text falls into group 1",
			industry:     "",
			wantCode:     "Nhóm 1",
			wantCombined: "0.015",
		},
		{
			name:         "unrecognized text falls into group 1",
			industry:     "bán đồ lưu niệm",
			wantCode:     "Nhóm 1",
			wantCombined: "0.015",
		},
		{
			name:         "food service is group 3",
			industry:     "Quán ăn gia đình",
			wantCode:     "Nhóm 3",
			wantCombined: "0.045",
		},
		{
			name:         "food service wording with dich vu still group 3",
			industry:     "Dịch vụ ăn uống", // has no group-2 keyword, "dịch vụ" alone is not one
			wantCode:     "Nhóm 3",
			wantCombined: "0.045",
		},
		{
			name:         "transport is group 3",
			industry:     "Vận tải hàng hóa đường bộ",
			wantCode:     "Nhóm 3",
			wantCombined: "0.045",
		},
		{
			name:         "lodging is group 2",
			industry:     "Kinh doanh nhà nghỉ, homestay",
			wantCode:     "Nhóm 2",
			wantCombined: "0.07",
		},
		{
			name:         "consulting is group 2",
			industry:     "Tư vấn thiết kế nội thất",
			wantCode:     "Nhóm 2",
			wantCombined: "0.07",
		},
		{
			name:         "agency is group 4",
			industry:     "Đại lý vé số",
			wantCode:     "Nhóm 4",
			wantCombined: "0.03",
		},
		{
			name:         "lottery is group 4",
			industry:     "xổ số kiến thiết",
			wantCode:     "Nhóm 4",
			wantCombined: "0.03",
		},
		{
			name:         "leasing is its own bracket",
			industry:     "Cho thuê phòng trọ",
			wantCode:     "Cho thuê",
			wantCombined: "0.1",
		},
		{
			name:         "matching is case-insensitive",
			industry:     "SẢN XUẤT ĐỒ GỖ",
			wantCode:     "Nhóm 3",
			wantCombined: "0.045",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bracket := classifier.Classify(tt.industry)

			assert.Equal(t, tt.wantCode, bracket.GroupCode)
			want := decimal.RequireFromString(tt.wantCombined)
			assert.True(t, bracket.CombinedRate().Equal(want),
				"combined rate = %s, want %s", bracket.CombinedRate(), want)
		})
	}
}

func TestClassifyPriorityOrdering(t *testing.T) {
	classifier := NewClassifier(DefaultPolicy())

	// Text hits both a group-3 keyword ("ăn uống") and a group-2 keyword
	// ("tư vấn"); the earlier rule must win.
	bracket := classifier.Classify("ăn uống tư vấn")

	assert.Equal(t, "Nhóm 3", bracket.GroupCode)
	assert.Equal(t, "Sản xuất, Vận tải, Ăn uống", bracket.GroupLabel)
}

func TestClassifyLeasingShortCircuit(t *testing.T) {
	classifier := NewClassifier(DefaultPolicy())

	// Leasing outranks every other rule even when their keywords are present.
	bracket := classifier.Classify("cho thuê xây dựng")

	assert.Equal(t, "Cho thuê", bracket.GroupCode)
	assert.True(t, bracket.CombinedRate().Equal(decimal.RequireFromString("0.1")))
}

func TestClassifyConstructionException(t *testing.T) {
	classifier := NewClassifier(DefaultPolicy())

	tests := []struct {
		name     string
		industry string
		wantCode string
	}{
		{
			name:     "labor-only construction reclassified as service",
			industry: "xây dựng không bao thầu",
			wantCode: "Nhóm 2",
		},
		{
			name:     "labor-only installation reclassified as service",
			industry: "lắp đặt điện nước nhân công",
			wantCode: "Nhóm 2",
		},
		{
			name:     "full-package construction stays group 3",
			industry: "xây dựng trọn gói",
			wantCode: "Nhóm 3",
		},
		{
			name:     "plain construction stays group 3",
			industry: "lắp đặt thiết bị",
			wantCode: "Nhóm 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bracket := classifier.Classify(tt.industry)
			assert.Equal(t, tt.wantCode, bracket.GroupCode)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := NewClassifier(DefaultPolicy())

	first := classifier.Classify("cắt tóc gội đầu")
	second := classifier.Classify("cắt tóc gội đầu")

	assert.Equal(t, first, second)
}

func TestDefaultPolicyBracketRates(t *testing.T) {
	policy := DefaultPolicy()

	require.Len(t, policy.Rules, 4)
	assert.Equal(t, int64(500_000_000), policy.ExemptionThreshold)

	rates := map[string]string{
		"Cho thuê": "0.1",
		"Nhóm 3":   "0.045",
		"Nhóm 2":   "0.07",
		"Nhóm 4":   "0.03",
	}
	for _, rule := range policy.Rules {
		want, ok := rates[rule.Bracket.GroupCode]
		require.True(t, ok, "unexpected bracket %q", rule.Bracket.GroupCode)
		assert.True(t, rule.Bracket.CombinedRate().Equal(decimal.RequireFromString(want)),
			"%s combined rate", rule.Bracket.GroupCode)
	}

	assert.Equal(t, "Nhóm 1", policy.Fallback.GroupCode)
	assert.True(t, policy.Fallback.CombinedRate().Equal(decimal.RequireFromString("0.015")))
}

func TestClassifyWithSyntheticPolicy(t *testing.T) {
	// The classifier must follow whatever rule table it is given, not the
	// compiled-in one.
	policy := Policy{
		ExemptionThreshold: 1_000,
		Rules: []Rule{
			{
				Keywords: []string{"phở"},
				Bracket:  Bracket{GroupCode: "test-a"},
			},
		},
		Fallback: Bracket{GroupCode: "test-default"},
	}
	classifier := NewClassifier(policy)

	assert.Equal(t, "test-a", classifier.Classify("quán phở").GroupCode)
	assert.Equal(t, "test-default", classifier.Classify("quán bún").GroupCode)
}
