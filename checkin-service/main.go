package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "rollcall-backend/docs"

	"rollcall-backend/checkin-service/handlers"
	"rollcall-backend/checkin-service/middleware"
	"rollcall-backend/checkin-service/services"
	"rollcall-backend/shared/config"
	"rollcall-backend/shared/database"
	"rollcall-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Redis is an accelerator for the listing views, not a dependency.
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, listing views will hit the database: %v", err)
	}

	// Object storage archives roster uploads; imports work without it.
	archiveService, err := services.NewArchiveService()
	if err != nil {
		log.Printf("⚠️ MinIO unavailable, roster uploads will not be archived: %v", err)
		archiveService = nil
	}

	attendanceService := services.NewAttendanceService(services.NewGormStore(database.GetDB()))
	conversationService := services.NewConversationService(cfg)

	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, handlers.LiveNotifier{})
	importHandler := handlers.NewImportHandler(archiveService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	checkInLimiter := middleware.NewRateLimiter(1 * time.Hour)
	checkInRateLimit := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetCheckInRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetCheckInRateLimitWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetCheckInRateLimitBlockMinutes()) * time.Minute,
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public check-in
	router.POST("/api/check-in", checkInLimiter.CheckInRateLimitMiddleware(checkInRateLimit), attendanceHandler.SubmitCheckIn)
	router.GET("/api/events/code/:code", handlers.GetEventByCode)

	// Event administration
	router.POST("/api/events", handlers.CreateEvent)
	router.GET("/api/organizations/:id/events", handlers.GetOrgEvents)
	router.GET("/api/events/:id/attendees", handlers.GetEventAttendees)
	router.GET("/api/members/:id/attendance", handlers.GetMemberAttendance)
	router.GET("/ws/events/:id", handlers.EventFeed)

	// Contact import
	router.POST("/api/contacts/import", importHandler.ImportContacts)

	// Access code exchange and template editor
	router.POST("/api/auth/access-code", handlers.VerifyAccessCode)
	router.POST("/api/email-conversation", middleware.AccessCodeMiddleware(), conversationHandler.EmailConversation)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "checkin",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Check-in Service starting on port %s...", cfg.ServerPort)
	router.Run(":" + cfg.ServerPort)
}
