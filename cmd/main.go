package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/mstclair/bakery-backoffice/docs" // Import generated docs
	"github.com/mstclair/bakery-backoffice/internal/auth"
	"github.com/mstclair/bakery-backoffice/internal/config"
	"github.com/mstclair/bakery-backoffice/internal/controllers"
	"github.com/mstclair/bakery-backoffice/internal/database"
	"github.com/mstclair/bakery-backoffice/internal/middleware"
	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

var (
	db            *gorm.DB
	configuration *config.Config
	logger        = log.StandardLogger()

	groceryController   controllers.GroceryController
	componentController controllers.ComponentController
	recipeController    controllers.RecipeController
	orderController     controllers.OrderController
	authController      *controllers.AuthController
	clientController    *controllers.ClientController
	oauthService        *auth.OAuthService
)

// @title Bakery Back-Office API
// @version 1.0
// @description Cost tracking, pricing, and order management for a home bakery
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	setupServices()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
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
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
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

	err = db.AutoMigrate(
		&models.Grocery{},
		&models.Component{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	)
	checkPanicErr(err)

	return db
}

// setupServices wires the service layer and its controllers
func setupServices() {
	groceryController = controllers.NewGroceryController(services.NewGroceryService(db, logger))
	componentController = controllers.NewComponentController(services.NewComponentService(db, logger))
	recipeController = controllers.NewRecipeController(services.NewRecipeService(db, logger))
	orderController = controllers.NewOrderController(services.NewOrderService(db, logger))
	authController = controllers.NewAuthController(services.NewUserService(db), configuration.JWTSecret)
	clientController = controllers.NewClientController(services.NewClientService(db))
	oauthService = auth.NewOAuthService(db, configuration.JWTSecret)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// OAuth2 token endpoint for storefront clients
	router.POST("/oauth/token", oauthService.HandleToken)

	v1 := router.Group("/api/v1")
	{
		// Catalog reads are public: the storefront shows recipes without
		// holding staff credentials.
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/groceries", groceryController.GetAllGroceries)
			publicApi.GET("/groceries/:id", groceryController.GetGroceryByID)
			publicApi.GET("/components", componentController.GetAllComponents)
			publicApi.GET("/components/:id", componentController.GetComponentByID)
			publicApi.GET("/recipes", recipeController.GetAllRecipes)
			publicApi.GET("/recipes/:id", recipeController.GetRecipeByID)
		}

		// Authentication routes
		authApi := v1.Group("/auth")
		{
			authApi.POST("/login", authController.Login)
			authApi.POST("/register", authController.Register)
		}

		// Everything that mutates state requires an admin token.
		adminApi := v1.Group("")
		adminApi.Use(middleware.OAuth2Auth([]byte(configuration.JWTSecret)))
		adminApi.Use(middleware.RequireRole("admin"))
		{
			adminApi.POST("/groceries", groceryController.CreateGrocery)
			adminApi.PUT("/groceries/:id", groceryController.UpdateGrocery)
			adminApi.DELETE("/groceries/:id", groceryController.DeleteGrocery)

			adminApi.POST("/components", componentController.CreateComponent)
			adminApi.PUT("/components/:id", componentController.UpdateComponent)
			adminApi.DELETE("/components/:id", componentController.DeleteComponent)

			adminApi.POST("/recipes", recipeController.CreateRecipe)
			adminApi.PUT("/recipes/:id", recipeController.UpdateRecipe)
			adminApi.PUT("/recipes/:id/actual-time", recipeController.RecordActualTime)
			adminApi.DELETE("/recipes/:id", recipeController.DeleteRecipe)

			adminApi.GET("/orders", orderController.GetAllOrders)
			adminApi.GET("/orders/upcoming", orderController.GetUpcomingOrders)
			adminApi.GET("/orders/:id", orderController.GetOrderByID)
			adminApi.POST("/orders", orderController.CreateOrder)
			adminApi.PUT("/orders/:id", orderController.UpdateOrder)
			adminApi.PUT("/orders/:id/deposit-paid", orderController.MarkDepositPaid)
			adminApi.PUT("/orders/:id/payment", orderController.RecordPayment)
			adminApi.PUT("/orders/:id/postmortem", orderController.CompletePostmortem)
			adminApi.DELETE("/orders/:id", orderController.DeleteOrder)

			adminApi.POST("/clients", clientController.CreateClient)
			adminApi.GET("/clients", clientController.ListClients)
			adminApi.DELETE("/clients/:id", clientController.DeleteClient)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "bakery-backoffice",
	})
}
