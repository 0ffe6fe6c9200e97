package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"hostel-system/config"
	"hostel-system/internal/database"
	"hostel-system/internal/database/memory"
	"hostel-system/internal/gateway/handlers"
	"hostel-system/internal/gateway/middleware"
	"hostel-system/internal/notify"
	inventory "hostel-system/internal/services/inventory/handler"
	kit "hostel-system/internal/services/kit/handler"
	ration "hostel-system/internal/services/ration/handler"
	user "hostel-system/internal/services/user/handler"
	"hostel-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.Auth.JWTSecret != "" {
		utils.JwtSecret = []byte(cfg.Auth.JWTSecret)
	}

	var (
		inventoryStore inventory.Store
		rationStore    ration.Store
		kitStore       kit.Store
		userStore      user.Store
		otpStore       user.OTPStore
		redisClient    *redis.Client
	)

	switch cfg.Storage.Driver {
	case "memory":
		log.Println("Using in-memory storage driver")
		store := memory.NewStore()
		inventoryStore = store
		rationStore = store
		kitStore = store
		userStore = store
		otpStore = memory.NewOTPStore()
	default:
		db, err := database.NewConnection(cfg.DB.DSN())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		redisClient = config.NewRedisClient(cfg.Redis)

		store := database.NewStore(db)
		inventoryStore = store
		rationStore = store
		kitStore = store
		userStore = store
		otpStore = user.NewRedisOTPStore(redisClient)
	}

	var sender notify.Sender = notify.ConsoleSender{}
	if cfg.Twilio.AccountSID != "" {
		sender = notify.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		log.Println("Twilio SMS sender configured")
	} else {
		log.Println("Twilio not configured, SMS output goes to the log")
	}

	inventoryHandler := handlers.NewInventoryHTTPHandler(inventory.NewInventoryHandler(inventoryStore, redisClient))
	rationHandler := handlers.NewRationHTTPHandler(ration.NewRationHandler(rationStore, sender))
	kitHandler := handlers.NewKitHTTPHandler(kit.NewKitHandler(kitStore, sender))
	userHandler := handlers.NewUserHTTPHandler(user.NewUserHandler(userStore, otpStore, sender))

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/admin/register", userHandler.RegisterAdmin)
			auth.POST("/admin/login", userHandler.LoginAdmin)
			auth.POST("/admin/send-otp", userHandler.SendOTP)
			auth.POST("/admin/validate-otp", userHandler.ValidateOTP)
			auth.POST("/admin/reset-password", userHandler.ResetPassword)
			auth.POST("/chief/login", userHandler.LoginChief)
		}

		// Students check their own kit status by SSP ID without logging in.
		public.GET("/kit-status/:sspId", kitHandler.GetStudentStatus)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		rations := protected.Group("/rations")
		{
			rations.GET("/items", inventoryHandler.ListItems)
			rations.GET("/history/:itemId", inventoryHandler.GetHistory)
			rations.POST("/requests", rationHandler.SubmitRequest)
			rations.GET("/requests/history/:chiefId", rationHandler.ListHistory)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			adminRations := admin.Group("/rations")
			{
				adminRations.POST("/items", inventoryHandler.AddItem)
				adminRations.POST("/in", inventoryHandler.RecordIncoming)
				adminRations.POST("/in/bulk", inventoryHandler.BulkIncoming)
				adminRations.POST("/out", inventoryHandler.RecordOutgoing)
				adminRations.GET("/requests/pending", rationHandler.ListPending)
				adminRations.PUT("/requests/:requestId/approve", rationHandler.ApproveRequest)
				adminRations.PUT("/requests/:requestId/reject", rationHandler.RejectRequest)
			}

			kits := admin.Group("/kits")
			{
				kits.POST("/cycles", kitHandler.CreateCycle)
				kits.GET("/cycles", kitHandler.ListCycles)
				kits.GET("/cycles/:cycleId/report", kitHandler.GetCycleReport)
				kits.PUT("/cycles/:cycleId/close", kitHandler.CloseCycle)
				kits.PUT("/cycles/:cycleId/reopen", kitHandler.ReopenCycle)
				kits.POST("/cycles/:cycleId/remind", kitHandler.RemindPending)
				kits.POST("/redeem", kitHandler.RedeemToken)
			}

			students := admin.Group("/students")
			{
				students.POST("", userHandler.CreateStudent)
				students.GET("", userHandler.ListStudents)
				students.GET("/:sspId", userHandler.GetStudent)
			}

			admin.POST("/auth/chief/register", userHandler.RegisterChief)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"storage":   cfg.Storage.Driver,
			"timestamp": time.Now(),
		})
	})

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
