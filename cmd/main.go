package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/zipacres/zipacres-api/docs" // Import generated docs
	"github.com/zipacres/zipacres-api/internal/config"
	"github.com/zipacres/zipacres-api/internal/controllers"
	"github.com/zipacres/zipacres-api/internal/database"
	"github.com/zipacres/zipacres-api/internal/middleware"
	"github.com/zipacres/zipacres-api/internal/services"
)

var (
	db            *gorm.DB
	configuration *config.Config

	tokenService    services.TokenService
	userService     services.UserService
	propertyService services.PropertyService

	authController     *controllers.AuthController
	propertyController *controllers.PropertyController
	leadsController    *controllers.LeadsController
	otpController      *controllers.OTPController
)

// @title ZipAcres API
// @version 1.0
// @description Real-estate listing backend: properties, auth, leads and OTP verification.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	loadDotenvFile()
	setUpLogger()

	configuration = loadConfig()

	setupDatabase(configuration)

	// Services and controllers
	tokenService = services.NewTokenService(configuration.JWTSecret, services.TokenTTL)
	userService = services.NewUserService(db, configuration.AdminCode)
	propertyService = services.NewPropertyService(db)
	googleVerifier := services.NewGoogleVerifier(configuration.GoogleClientID)
	crmNotifier := services.NewWebhookCRM(configuration.CRMWebhookURL)
	otpService := services.NewTwilioOTPService(configuration)

	authController = controllers.NewAuthController(userService, tokenService, googleVerifier, crmNotifier)
	propertyController = controllers.NewPropertyController(propertyService)
	leadsController = controllers.NewLeadsController(userService)
	otpController = controllers.NewOTPController(otpService)

	router := setupRouter()

	addr := fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the configured database and applies the schema
func setupDatabase(conf *config.Config) {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     configuration.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	authRequired := middleware.Authenticate(tokenService, db)
	authOptional := middleware.AuthenticateOptional(tokenService, db)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/google", authController.GoogleAuth)
		}

		properties := api.Group("/properties")
		{
			// Reads are public; the visibility predicate hides unlisted
			// records from anyone but their owner.
			properties.GET("", authOptional, propertyController.GetAll)
			properties.GET("/my", authRequired, middleware.RequireAdmin(), propertyController.GetMine)
			properties.GET("/:id", authOptional, propertyController.GetByID)

			properties.POST("", authRequired, middleware.RequireAdmin(), propertyController.Create)
			properties.PUT("/:id", authRequired, middleware.RequireAdmin(), propertyController.Update)
			properties.DELETE("/:id", authRequired, middleware.RequireAdmin(), propertyController.Delete)
		}

		leads := api.Group("/leads", authRequired)
		{
			leads.GET("", leadsController.List)
			leads.PUT("/:id", leadsController.Update)
		}

		api.POST("/send-otp", otpController.Send)
		api.POST("/verify-otp", otpController.Verify)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "zipacres-api",
	})
}
