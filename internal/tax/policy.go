package tax

import "github.com/shopspring/decimal"

// Suppressor cancels a rule match and lets evaluation fall through to the
// next rule. It fires when the industry text contains any keyword from
// MatchedAnyOf together with any keyword from TextAnyOf.
type Suppressor struct {
	MatchedAnyOf []string
	TextAnyOf    []string
}

// Rule is one step of the classification cascade: the first rule whose
// keyword set hits the industry text (and is not suppressed) decides the
// bracket.
type Rule struct {
	Keywords []string
	Suppress *Suppressor
	Bracket  Bracket
}

// Policy bundles the classification rule table and the exemption threshold
// so the engine can be exercised against synthetic policies in tests.
// Production callers use DefaultPolicy.
type Policy struct {
	// ExemptionThreshold is the gross yearly revenue (VND) at or under
	// which no tax is owed.
	ExemptionThreshold int64
	// Rules are evaluated in order; the first unsuppressed match wins.
	Rules []Rule
	// Fallback applies when no rule matches.
	Fallback Bracket
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultPolicy returns the compiled-in policy: the 500 million đồng
// exemption threshold and the five-bracket keyword table.
func DefaultPolicy() Policy {
	return Policy{
		ExemptionThreshold: 500_000_000,
		Rules: []Rule{
			{
				// Cho thuê tài sản: the highest rate, checked before
				// everything else. "Cho thuê nhà xưởng sản xuất" must land
				// here, not in Nhóm 3.
				Keywords: []string{"cho thuê", "thuê nhà", "thuê phòng", "thuê tài sản"},
				Bracket: Bracket{
					VATRate:    rate("0.05"),
					PITRate:    rate("0.05"),
					GroupLabel: "Cho thuê tài sản",
					GroupCode:  "Cho thuê",
				},
			},
			{
				// Nhóm 3: sản xuất, vận tải, ăn uống, sửa chữa. Checked
				// before Nhóm 2 because "dịch vụ ăn uống" contains service
				// wording but belongs here.
				Keywords: []string{
					"sản xuất", "gia công", "chế biến",
					"vận tải", "chở hàng", "chở khách", "xe ôm", "taxi", "grab",
					"ăn uống", "nhà hàng", "quán ăn", "cafe", "cà phê", "trà sữa", "giải khát",
					"sửa chữa", "bảo dưỡng", "rửa xe",
					"xây dựng", "lắp đặt", // bao thầu assumed when unstated
				},
				// Construction without materials (không bao thầu / nhân
				// công only) is a service, so the match falls through to
				// Nhóm 2.
				Suppress: &Suppressor{
					MatchedAnyOf: []string{"xây dựng", "lắp đặt"},
					TextAnyOf:    []string{"không bao thầu", "nhân công"},
				},
				Bracket: Bracket{
					VATRate:    rate("0.03"),
					PITRate:    rate("0.015"),
					GroupLabel: "Sản xuất, Vận tải, Ăn uống",
					GroupCode:  "Nhóm 3",
				},
			},
			{
				// Nhóm 2: dịch vụ, lưu trú.
				Keywords: []string{
					"lưu trú", "khách sạn", "nhà nghỉ", "homestay",
					"tư vấn", "thiết kế", "giám sát", "kế toán", "môi giới", "quảng cáo",
					"massage", "karaoke", "vũ trường", "game", "internet", "bida", "bi-a",
					"giặt là", "cắt tóc", "làm đầu", "gội đầu", "spa", "thẩm mỹ",
					"xây dựng", "lắp đặt", "nhân công", // carried over from the Nhóm 3 exception
				},
				Bracket: Bracket{
					VATRate:    rate("0.05"),
					PITRate:    rate("0.02"),
					GroupLabel: "Dịch vụ, Xây dựng (nhân công)",
					GroupCode:  "Nhóm 2",
				},
			},
			{
				// Nhóm 4: đại lý, khác.
				Keywords: []string{"đại lý", "xổ số", "đa cấp"},
				Bracket: Bracket{
					VATRate:    rate("0.02"),
					PITRate:    rate("0.01"),
					GroupLabel: "Hoạt động kinh doanh khác",
					GroupCode:  "Nhóm 4",
				},
			},
		},
		// Nhóm 1: phân phối, bán buôn/lẻ — the default when nothing matches.
		Fallback: Bracket{
			VATRate:    rate("0.01"),
			PITRate:    rate("0.005"),
			GroupLabel: "Phân phối, Bán buôn/lẻ",
			GroupCode:  "Nhóm 1",
		},
	}
}
