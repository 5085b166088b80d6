package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/StartUpFoundee/astral-guide-ai/api"
	"github.com/StartUpFoundee/astral-guide-ai/config"
	"github.com/StartUpFoundee/astral-guide-ai/database"
	"github.com/StartUpFoundee/astral-guide-ai/middleware"
	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
	"github.com/StartUpFoundee/astral-guide-ai/services"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	quotaRepo := repository.NewQuotaRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	// Each service owns its rand.Rand: the generators are not thread-safe and
	// each service serializes access with its own lock, so sharing one
	// instance across services would race under concurrent requests.
	gate := services.NewUsageGateService(quotaRepo, config.AppConfig.FreeQuestionLimit)
	responses := services.NewResponseService(rand.New(rand.NewSource(time.Now().UnixNano())))
	scheduler := services.NewReplyScheduler()
	consultation := services.NewConsultationService(
		conversationRepo,
		historyRepo,
		profileRepo,
		gate,
		responses,
		scheduler,
		time.Duration(config.AppConfig.ReplyDelayMinSecs)*time.Second,
		time.Duration(config.AppConfig.ReplyDelayMaxSecs)*time.Second,
		rand.New(rand.NewSource(time.Now().UnixNano()+1)),
	)
	history := services.NewHistoryService(historyRepo)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(profileRepo, quotaRepo, gate, consultation, history)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.SessionState{},
		&models.IdentityQuota{},
		&models.QuotaSettings{},
		&models.ConversationMessage{},
		&models.HistoryRecord{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/init", handler.InitHandler)

		apiGroup.POST("/profile", handler.SaveProfileHandler)
		apiGroup.GET("/profile", handler.GetProfileHandler)
		apiGroup.POST("/profile/reset", handler.ResetProfileHandler)

		apiGroup.GET("/categories", handler.CategoriesHandler)
		apiGroup.GET("/categories/:categoryID/astrologers", handler.CategoryAstrologersHandler)

		apiGroup.POST("/chat", handler.ChatHandler)
		apiGroup.GET("/chat/:astrologerID/messages", handler.ThreadHandler)
		apiGroup.DELETE("/chat/:astrologerID", handler.ClearThreadHandler)

		apiGroup.POST("/subscription", handler.SubscribeHandler)

		historyGroup := apiGroup.Group("/history")
		{
			historyGroup.GET("", handler.HistoryHandler)
			historyGroup.GET("/grouped", handler.GroupedHistoryHandler)
			historyGroup.GET("/export", handler.ExportHistoryHandler)
		}
	}
}
