package routes

import (
	"net/http"

	"agencia_backend/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts every HTTP route. The adminGuard middleware carries
// the injected admin policy and runs after AuthMiddleware on admin groups.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, adminGuard gin.HandlerFunc, localUploadsDir string) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api, adminGuard)
		appHandlers.PlanHandler.RegisterRoutes(api, adminGuard)
		appHandlers.WebhookHandler.RegisterRoutes(api)
		appHandlers.InvoiceHandler.RegisterRoutes(api, adminGuard)
		appHandlers.DashboardHandler.RegisterRoutes(api, adminGuard)
		appHandlers.UploadHandler.RegisterRoutes(api)
	}

	// Local storage serves uploads straight from disk; S3/R2 deployments
	// hand out absolute URLs instead.
	if localUploadsDir != "" {
		ginRouter.Static("/files", localUploadsDir)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
