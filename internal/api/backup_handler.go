package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/backup"
	"go.uber.org/zap"
)

// BackupHandler serves encrypted account backups.
type BackupHandler struct {
	backup *backup.Service
	logger *zap.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *backup.Service, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{backup: backupService, logger: logger}
}

// Export returns the caller's data as an encrypted blob.
func (h *BackupHandler) Export(c *gin.Context) {
	blob, err := h.backup.Export(currentAccount(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export backup"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup": blob})
}

type importRequest struct {
	Backup string `json:"backup" binding:"required"`
}

// Import restores ledger entries from a previously exported blob.
func (h *BackupHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "backup là bắt buộc"})
		return
	}

	_, restored, err := h.backup.Import(currentAccount(c).ID, req.Backup)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "không khôi phục được bản sao lưu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}
