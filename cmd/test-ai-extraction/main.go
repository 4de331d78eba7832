package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"github.com/vuongle/taxmate/internal/ai"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// Manual smoke test for the chat extractor against the live API.
// Not part of the automated test suite because it spends real tokens.
func main() {
	// Parse command line flags
	apiKey := flag.String("key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	model := flag.String("model", "gpt-4o-mini", "Model to test against")
	message := flag.String("message", "Hôm qua thu 500k bán hàng, chi 200k tiền điện", "Message to extract from")
	industry := flag.String("industry", "Quán ăn", "Business industry for the prompt context")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Pick up OPENAI_API_KEY from a local .env when present
	_ = gotenv.Load()

	// Initialize logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Get API key from flag or environment
	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if *apiKey == "" {
		fmt.Fprintf(os.Stderr, "ERROR: OPENAI_API_KEY not set and no --key flag provided\n")
		fmt.Fprintf(os.Stderr, "Usage: test-ai-extraction --key sk-... [--message <text>] [--timeout 30s]\n")
		os.Exit(1)
	}

	fmt.Println("=== Transaction Extraction Test ===")
	fmt.Printf("  Model:    %s\n", *model)
	fmt.Printf("  Message:  %s\n", *message)
	fmt.Printf("  Industry: %s\n", *industry)
	fmt.Println()

	extractor := ai.NewExtractor(*apiKey, *model, 0.2, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	result, err := extractor.ExtractTransaction(ctx, *message, "", &entity.BusinessProfile{
		Name:     "Hộ kinh doanh thử nghiệm",
		Industry: *industry,
	})
	elapsed := time.Since(start)

	if err != nil {
		fmt.Printf("FAILED after %v: %v\n", elapsed, err)
		os.Exit(1)
	}

	fmt.Printf("OK in %v\n\n", elapsed)
	fmt.Printf("Reply: %s\n", result.Reply)
	if result.Transaction == nil {
		fmt.Println("No transaction extracted")
		return
	}

	pretty, _ := json.MarshalIndent(result.Transaction, "", "  ")
	fmt.Printf("Extracted transaction:\n%s\n", pretty)
}
