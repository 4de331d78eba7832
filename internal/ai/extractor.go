package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// ExtractionResult is the assistant's reply plus an optional candidate
// transaction found in the user's message. The candidate is a draft: it is
// not written to the ledger until the user confirms it.
type ExtractionResult struct {
	Reply       string
	Transaction *entity.Transaction
}

// Extractor turns free-text (and receipt photos) into structured
// candidate transactions using a chat model.
type Extractor struct {
	client *openai.Client
	model  string
	temp   float32
	logger *zap.Logger
}

// NewExtractor creates a new transaction extractor
func NewExtractor(apiKey, model string, temperature float32, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		model:  model,
		temp:   temperature,
		logger: logger,
	}
}

// extractionPayload is the wire format the model is instructed to return.
type extractionPayload struct {
	Reply       string           `json:"reply"`
	Transaction *wireTransaction `json:"extracted_transaction"`
}

type wireTransaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	RiskLevel   string  `json:"risk_level"`
	RiskNote    string  `json:"risk_note"`
}

// ExtractTransaction sends one user message (optionally with a photo) to
// the model and parses the reply. The business profile, when present, is
// appended as context so the model can tell stock purchases from personal
// spending.
func (e *Extractor) ExtractTransaction(ctx context.Context, message, imageBase64 string, profile *entity.BusinessProfile) (*ExtractionResult, error) {
	content := message + fmt.Sprintf("\n[Hôm nay: %s]", time.Now().Format("02/01/2006"))
	if profile != nil {
		content += fmt.Sprintf("\n[Context: HKD %s, Ngành: %s]", profile.Name, profile.Industry)
	}

	userMessage := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if imageBase64 != "" {
		userMessage.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: dataURL(imageBase64),
				},
			},
			{Type: openai.ChatMessagePartTypeText, Text: content},
		}
	} else {
		userMessage.Content = content
	}

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temp,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: chatInstruction,
			},
			userMessage,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		e.logger.Error("Extraction API call failed", zap.Error(err))
		return nil, fmt.Errorf("extraction API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	result, err := parseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		e.logger.Error("Failed to parse extraction response",
			zap.Error(err),
			zap.String("content", resp.Choices[0].Message.Content))
		return nil, err
	}

	e.logger.Info("Transaction extraction completed",
		zap.Bool("has_transaction", result.Transaction != nil))
	return result, nil
}

// parseExtraction decodes the model payload, tolerating markdown fences
// around the JSON.
func parseExtraction(content string) (*ExtractionResult, error) {
	var payload extractionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		extracted := extractJSON(content)
		if extracted == "" {
			return nil, fmt.Errorf("failed to parse extraction response: %w", err)
		}
		if err := json.Unmarshal([]byte(extracted), &payload); err != nil {
			return nil, fmt.Errorf("failed to parse extraction response: %w", err)
		}
	}
	if payload.Reply == "" {
		return nil, fmt.Errorf("extraction response has no reply")
	}

	result := &ExtractionResult{Reply: payload.Reply}
	if payload.Transaction != nil {
		tx, err := payload.Transaction.toEntity()
		if err != nil {
			// A malformed candidate is dropped rather than failing the
			// whole chat turn; the reply still reaches the user.
			return &ExtractionResult{Reply: payload.Reply}, nil
		}
		result.Transaction = tx
	}
	return result, nil
}

func (w *wireTransaction) toEntity() (*entity.Transaction, error) {
	date, err := time.ParseInLocation("2006-01-02", w.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date %q: %w", w.Date, err)
	}
	if w.Amount < 0 {
		return nil, fmt.Errorf("negative amount %f", w.Amount)
	}

	typ := entity.TransactionType(strings.ToUpper(w.Type))
	if typ != entity.TransactionIncome && typ != entity.TransactionExpense {
		return nil, fmt.Errorf("unknown transaction type %q", w.Type)
	}

	risk := entity.RiskLevel(strings.ToUpper(w.RiskLevel))
	switch risk {
	case entity.RiskSafe, entity.RiskWarning, entity.RiskHigh:
	default:
		risk = entity.RiskSafe
	}

	return &entity.Transaction{
		Date:        date,
		Amount:      int64(w.Amount),
		Description: w.Description,
		Type:        typ,
		Category:    w.Category,
		RiskLevel:   risk,
		RiskNote:    w.RiskNote,
	}, nil
}

func dataURL(imageBase64 string) string {
	if strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	return "data:image/jpeg;base64," + imageBase64
}
