package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// LicenseReader extracts a draft business profile from a photo of a
// household-business registration certificate.
type LicenseReader struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLicenseReader creates a new license reader. The model must accept
// image input.
func NewLicenseReader(apiKey, model string, logger *zap.Logger) *LicenseReader {
	return &LicenseReader{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

type wireProfile struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	Address      string `json:"address"`
	Industry     string `json:"industry"`
	IndustryCode string `json:"industry_code"`
	OwnerName    string `json:"owner_name"`
}

// ReadLicense runs OCR on the certificate photo and returns a draft
// profile for the user to review. Fields the model cannot read come back
// empty; nothing is invented.
func (lr *LicenseReader) ReadLicense(ctx context.Context, imageBase64 string) (*entity.BusinessProfile, error) {
	req := openai.ChatCompletionRequest{
		Model: lr.model,
		// OCR wants maximum determinism
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: licenseInstruction,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL(imageBase64),
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Trích xuất dữ liệu: Tìm dòng 'Mã số hộ kinh doanh' điền vào tax_id. Tìm mã ngành điền vào industry_code.",
					},
				},
			},
		},
	}

	resp, err := lr.client.CreateChatCompletion(ctx, req)
	if err != nil {
		lr.logger.Error("License OCR API call failed", zap.Error(err))
		return nil, fmt.Errorf("license OCR API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	profile, err := parseLicense(resp.Choices[0].Message.Content)
	if err != nil {
		lr.logger.Error("Failed to parse license OCR response",
			zap.Error(err),
			zap.String("content", resp.Choices[0].Message.Content))
		return nil, err
	}

	lr.logger.Info("Business license read",
		zap.Bool("has_tax_id", profile.TaxID != ""))
	return profile, nil
}

func parseLicense(content string) (*entity.BusinessProfile, error) {
	var wire wireProfile
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		extracted := extractJSON(content)
		if extracted == "" {
			return nil, fmt.Errorf("failed to parse license response: %w", err)
		}
		if err := json.Unmarshal([]byte(extracted), &wire); err != nil {
			return nil, fmt.Errorf("failed to parse license response: %w", err)
		}
	}

	return &entity.BusinessProfile{
		Name:         wire.Name,
		TaxID:        wire.TaxID,
		Address:      wire.Address,
		Industry:     wire.Industry,
		IndustryCode: wire.IndustryCode,
		OwnerName:    wire.OwnerName,
	}, nil
}
