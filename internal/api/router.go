package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/accountant"
	"github.com/vuongle/taxmate/internal/auth"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Transaction *TransactionHandler
	Tax         *TaxHandler
	Chat        *ChatHandler
	Accountant  *AccountantHandler
	Report      *ReportHandler
	Backup      *BackupHandler
}

// NewRouter builds the HTTP surface: public auth routes plus the
// authenticated /api/v1 group.
func NewRouter(handlers Handlers, authService *auth.Service, accountantService *accountant.Service, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "taxmate",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/logout", AuthMiddleware(authService), handlers.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware(authService))
	{
		protected.GET("/profile", handlers.Profile.Get)
		protected.PUT("/profile", handlers.Profile.Update)
		protected.POST("/profile/license", handlers.Profile.ReadLicense)

		protected.GET("/transactions", handlers.Transaction.List)
		protected.POST("/transactions", handlers.Transaction.Create)
		protected.DELETE("/transactions/:id", handlers.Transaction.Delete)

		protected.GET("/tax/summary", handlers.Tax.Summary)

		protected.GET("/chat/messages", handlers.Chat.History)
		protected.POST("/chat/messages", handlers.Chat.Send)
		protected.POST("/chat/confirm/:messageID", handlers.Chat.Confirm)
		protected.POST("/chat/reject/:messageID", handlers.Chat.Reject)

		protected.GET("/accountant/match", handlers.Accountant.Match)
		protected.POST("/accountant/book", handlers.Accountant.Book)
		protected.POST("/accountant/pay", handlers.Accountant.Pay)
		protected.POST("/accountant/connect", handlers.Accountant.Connect)
		protected.GET("/accountant/messages", handlers.Accountant.Messages)
		protected.POST("/accountant/messages", handlers.Accountant.SendMessage)
		protected.GET("/accountant/clients", RequireRole(entity.RoleAccountant), handlers.Accountant.Clients)

		protected.GET("/reports/tax", handlers.Report.TaxReport)
		protected.GET("/reports/quote", func(c *gin.Context) {
			handlers.Report.ServiceQuote(c, accountantService.Matched())
		})

		protected.GET("/backup", handlers.Backup.Export)
		protected.POST("/backup", handlers.Backup.Import)
	}

	return router
}
