package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vuongle/taxmate/internal/config"
	"github.com/vuongle/taxmate/internal/report"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/internal/tax"
	"github.com/vuongle/taxmate/pkg/database"
	"github.com/vuongle/taxmate/pkg/utils"
	"go.uber.org/zap"
)

// Offline export of the yearly tax report, for operators without access
// to the HTTP API.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	phone := flag.String("phone", "", "Phone number of the account to export")
	year := flag.Int("year", 0, "Tax year (default: derived from the ledger)")
	flag.Parse()

	if *phone == "" {
		fmt.Fprintln(os.Stderr, "Usage: export-report --phone 0912345678 [--year 2025]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db.DB, logger)
	transactionRepo := repository.NewTransactionRepository(db.DB, logger)

	cleaned, err := utils.ValidatePhoneNumber(*phone)
	if err != nil {
		logger.Fatal("Invalid phone number", zap.Error(err))
	}
	account, err := accountRepo.GetByPhone(cleaned)
	if err != nil {
		logger.Fatal("Failed to load account", zap.Error(err))
	}
	if account == nil {
		logger.Fatal("Account not found", zap.String("phone", cleaned))
	}
	if account.Profile == nil {
		logger.Fatal("Account has no business profile yet", zap.String("phone", cleaned))
	}

	txs, err := transactionRepo.ListByAccount(account.ID)
	if err != nil {
		logger.Fatal("Failed to load transactions", zap.Error(err))
	}

	reportYear := *year
	if reportYear == 0 {
		reportYear = tax.DefaultYear(txs, time.Now())
	}

	engine := tax.NewEngine(tax.DefaultPolicy())
	summary := engine.Summarize(txs, reportYear, *account.Profile)
	monthly := engine.MonthlyTotals(txs, reportYear)

	file, err := report.NewGenerator(logger).BuildTaxReport(account.Profile, summary, monthly)
	if err != nil {
		logger.Fatal("Failed to build report", zap.Error(err))
	}
	defer file.Close()

	if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}
	outPath := filepath.Join(cfg.Report.OutputDir, fmt.Sprintf("bao-cao-thue-%s-%d.xlsx", cleaned, reportYear))
	if err := file.SaveAs(outPath); err != nil {
		logger.Fatal("Failed to save report", zap.Error(err))
	}

	fmt.Printf("Report written to %s\n", outPath)
	fmt.Printf("  Year:          %d\n", reportYear)
	fmt.Printf("  Yearly income: %d\n", summary.YearlyIncome)
	if summary.IsExempt {
		fmt.Println("  Tax due:       0 (miễn thuế)")
	} else {
		fmt.Printf("  Tax due:       %s\n", summary.TaxAmount)
	}
}
