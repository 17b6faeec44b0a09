package app

import (
	"context"
	"errors"
	"fmt"

	"agencia_backend/internal/auth"
	"agencia_backend/internal/config"
	"agencia_backend/internal/currency"
	"agencia_backend/internal/email"
	"agencia_backend/internal/handlers"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/mercadopago"
	"agencia_backend/internal/middleware"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/internal/routes"
	"agencia_backend/internal/services"
	"agencia_backend/internal/storage"
	"agencia_backend/internal/validator"
	"agencia_backend/internal/workers"
	"agencia_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected", "driver", cfg.Database.Driver)

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.UserPlan{},
		&models.Invoice{},
		&models.ClientDashboard{},
		&models.MediaUpload{},
		&models.WebhookEvent{},
	); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	workers.NewBillingWorker(gormDB).Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.Database.Driver {
	case "mysql":
		return mysql.Open(cfg.Database.DSN)
	default:
		return postgres.Open(cfg.Database.DSN)
	}
}

// SetupRouter wires storage, services, handlers and middleware into a gin
// engine. Exported so tests can run requests against an injected database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	logger.Info("storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)

	adminPolicy := auth.NewRoleAndAllowListPolicy(cfg.Admin.Emails)
	userRepo := repositories.NewUserRepository()
	adminGuard := middleware.AdminPolicyMiddleware(adminPolicy, func(c *gin.Context, userID string) (*models.User, error) {
		db := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		return userRepo.FindByID(db, userID)
	})

	ginRouter := initializeGinRouter(gormDB)

	localUploads := ""
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		localUploads = cfg.Storage.BasePath
	}
	routes.RegisterRoutes(ginRouter, appHandlers, adminGuard, localUploads)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	planRepo := repositories.NewPlanRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	dashboardRepo := repositories.NewDashboardRepository()
	uploadRepo := repositories.NewUploadRepository()
	eventRepo := repositories.NewWebhookEventRepository()

	sender := email.NewSender(cfg)
	provider := mercadopago.NewClient(cfg.MercadoPago.AccessToken, cfg.MercadoPago.BaseURL)
	currencySvc := currency.NewService(cfg.Currency.RateAPIURL, cfg.Currency.FallbackRate)

	return &services.ServiceContainer{
		AuthService:      services.NewAuthService(userRepo, planRepo),
		UserService:      services.NewUserService(userRepo),
		PlanService:      services.NewPlanService(planRepo, userRepo, provider, currencySvc, sender, cfg),
		WebhookService:   services.NewWebhookService(planRepo, userRepo, eventRepo, provider, sender, cfg),
		InvoiceService:   services.NewInvoiceService(invoiceRepo, userRepo, sender),
		DashboardService: services.NewDashboardService(dashboardRepo, userRepo),
		UploadService:    services.NewUploadService(uploadRepo, storageInstance, cfg),
		EmailSender:      sender,
		Storage:          storageInstance,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, container.AuthService, container.UserService),
		UserHandler:      handlers.NewUserHandler(baseHandler, container.UserService),
		PlanHandler:      handlers.NewPlanHandler(baseHandler, container.PlanService),
		WebhookHandler:   handlers.NewWebhookHandler(baseHandler, container.WebhookService),
		InvoiceHandler:   handlers.NewInvoiceHandler(baseHandler, container.InvoiceService),
		DashboardHandler: handlers.NewDashboardHandler(baseHandler, container.DashboardService),
		UploadHandler:    handlers.NewUploadHandler(baseHandler, container.UploadService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.FirstAdminEmail
	adminPassword := cfg.Admin.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("admin user already exists, skipping creation", "email", adminEmail)
		tx.Rollback()
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("no admin user found, creating first admin", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("first admin user created", "email", adminEmail)
	return tx.Commit().Error
}
