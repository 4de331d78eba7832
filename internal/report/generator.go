package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/tax"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Generator builds xlsx documents: the yearly presumptive-tax report and
// the accountant service quote. Workbooks are built from scratch so no
// template file has to ship with the binary.
type Generator struct {
	logger *zap.Logger
}

// Cell layout of the tax report sheet.
const (
	reportSheet = "Báo cáo thuế"

	cellBusinessName = "B2"
	cellTaxID        = "B3"
	cellIndustry     = "B4"
	cellBracket      = "B5"
	cellYear         = "B6"

	monthRowStart = 9 // one row per month, 12 rows

	summaryRowOffset = 2 // rows below the last month row
)

// NewGenerator creates a new report generator
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// BuildTaxReport renders the yearly tax position into a workbook. The
// caller owns the returned file and must Close it.
func (g *Generator) BuildTaxReport(profile *entity.BusinessProfile, summary tax.Summary, months [12]tax.MonthBucket) (*excelize.File, error) {
	file := excelize.NewFile()

	index, err := file.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		// excelize only fails here on a malformed cell reference, which
		// would be a programming error in the layout constants
		_ = file.SetCellValue(reportSheet, cell, value)
	}

	set("A1", fmt.Sprintf("BÁO CÁO THUẾ KHOÁN NĂM %d", summary.Year))

	set("A2", "Hộ kinh doanh")
	set("A3", "Mã số thuế")
	set("A4", "Ngành nghề")
	set("A5", "Nhóm thuế suất")
	set("A6", "Năm tính thuế")

	set(cellBusinessName, profile.Name)
	set(cellTaxID, profile.TaxID)
	set(cellIndustry, profile.Industry)
	set(cellBracket, fmt.Sprintf("%s (%s) — %s%%",
		summary.Bracket.GroupLabel,
		summary.Bracket.GroupCode,
		summary.Bracket.CombinedRate().Mul(decimal.NewFromInt(100))))
	set(cellYear, summary.Year)

	set("A8", "Tháng")
	set("B8", "Doanh thu (₫)")
	set("C8", "Chi phí (₫)")
	for i, bucket := range months {
		row := monthRowStart + i
		set(fmt.Sprintf("A%d", row), fmt.Sprintf("Tháng %02d", int(bucket.Month)))
		set(fmt.Sprintf("B%d", row), bucket.Income)
		set(fmt.Sprintf("C%d", row), bucket.Expense)
	}

	row := monthRowStart + len(months) + summaryRowOffset
	set(fmt.Sprintf("A%d", row), "Tổng doanh thu năm")
	set(fmt.Sprintf("B%d", row), summary.YearlyIncome)
	set(fmt.Sprintf("A%d", row+1), "Tổng chi phí năm")
	set(fmt.Sprintf("B%d", row+1), summary.YearlyExpense)

	if summary.IsExempt {
		set(fmt.Sprintf("A%d", row+2), fmt.Sprintf("Miễn thuế (doanh thu ≤ %s ₫)", formatVND(500_000_000)))
		set(fmt.Sprintf("B%d", row+2), 0)
	} else {
		set(fmt.Sprintf("A%d", row+2), "Thuế khoán phải nộp (tính trên TỔNG doanh thu)")
		taxDue, _ := summary.TaxAmount.Float64()
		set(fmt.Sprintf("B%d", row+2), taxDue)
	}

	g.logger.Info("Tax report built",
		zap.Int("year", summary.Year),
		zap.Bool("exempt", summary.IsExempt))
	return file, nil
}

// Cell layout of the service quote sheet.
const quoteSheet = "Báo giá dịch vụ"

// BuildServiceQuote renders the accountant engagement quote.
func (g *Generator) BuildServiceQuote(profile *entity.BusinessProfile, accountant entity.AccountantProfile) (*excelize.File, error) {
	file := excelize.NewFile()

	index, err := file.NewSheet(quoteSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(quoteSheet, cell, value)
	}

	set("A1", "BÁO GIÁ DỊCH VỤ KẾ TOÁN - QUYẾT TOÁN THUẾ KHOÁN")
	set("A3", "Khách hàng")
	set("B3", profile.Name)
	set("A4", "Mã số thuế")
	set("B4", profile.TaxID)

	set("A6", "Kế toán viên phụ trách")
	set("B6", accountant.Name)
	set("A7", "Số chứng chỉ hành nghề")
	set("B7", accountant.LicenseNumber)

	set("A9", "Dịch vụ")
	set("B9", "Đơn giá (₫)")
	set("A10", "Quyết toán thuế khoán trọn gói 01 năm")
	set("B10", accountant.PricePerFiling)

	set("A12", "Tổng cộng")
	set("B12", accountant.PricePerFiling)

	return file, nil
}

func formatVND(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if n <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return string(out)
}
