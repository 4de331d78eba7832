package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/ai"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"github.com/vuongle/taxmate/internal/repository"
	"github.com/vuongle/taxmate/pkg/utils"
	"go.uber.org/zap"
)

// ProfileHandler serves the business profile, including the OCR draft
// extracted from a registration certificate photo.
type ProfileHandler struct {
	accounts *repository.AccountRepository
	license  *ai.LicenseReader
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accounts *repository.AccountRepository, license *ai.LicenseReader, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, license: license, logger: logger}
}

// Get returns the caller's business profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	account := currentAccount(c)
	if account.Profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chưa có hồ sơ kinh doanh"})
		return
	}
	c.JSON(http.StatusOK, account.Profile)
}

type profileRequest struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	Address      string `json:"address"`
	Industry     string `json:"industry"`
	IndustryCode string `json:"industry_code"`
	OwnerName    string `json:"owner_name"`
}

func (r *profileRequest) validate() (*entity.BusinessProfile, error) {
	profile := &entity.BusinessProfile{
		Name:         utils.SanitizeInput(r.Name),
		TaxID:        utils.SanitizeInput(r.TaxID),
		Address:      utils.SanitizeInput(r.Address),
		Industry:     utils.SanitizeInput(r.Industry),
		IndustryCode: utils.SanitizeInput(r.IndustryCode),
		OwnerName:    utils.SanitizeInput(r.OwnerName),
	}

	if err := utils.ValidateBusinessName(profile.Name); err != nil {
		return nil, err
	}
	if err := utils.ValidateTaxID(profile.TaxID); err != nil {
		return nil, err
	}
	if err := utils.ValidateAddress(profile.Address); err != nil {
		return nil, err
	}
	if err := utils.ValidateIndustry(profile.Industry); err != nil {
		return nil, err
	}
	if err := utils.ValidateIndustryCode(profile.IndustryCode); err != nil {
		return nil, err
	}
	if err := utils.ValidateOwnerName(profile.OwnerName); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update validates and saves the business profile. The industry text set
// here drives the tax bracket on every later summary.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dữ liệu hồ sơ không hợp lệ"})
		return
	}

	profile, err := req.validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := currentAccount(c)
	if err := h.accounts.UpdateProfile(account.ID, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	h.logger.Info("Business profile updated",
		zap.String("account_id", account.ID),
		zap.String("industry", profile.Industry))
	c.JSON(http.StatusOK, profile)
}

type licenseRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// ReadLicense runs OCR on a certificate photo and returns a draft profile
// for the user to review. Nothing is saved until Update is called.
func (h *ProfileHandler) ReadLicense(c *gin.Context) {
	var req licenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 là bắt buộc"})
		return
	}

	profile, err := h.license.ReadLicense(c.Request.Context(), req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "không đọc được giấy phép, vui lòng nhập thủ công"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
