package main

import (
	"log"
	"os"

	_ "scolaris/api/swagger" // swagger docs
	"scolaris/internal/database"
	"scolaris/internal/handler"
	"scolaris/internal/middleware"
	"scolaris/internal/repository"
	"scolaris/internal/service"
	"scolaris/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Scolaris Billing API
// @version         1.0
// @description     School fee billing and double-entry ledger API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Opening capital for the balance sheet equity side; comes from
	// configuration, never from the ledger.
	openingCapital := decimal.Zero
	if raw := os.Getenv("OPENING_CAPITAL"); raw != "" {
		openingCapital, err = decimal.NewFromString(raw)
		if err != nil {
			log.Fatalf("Invalid OPENING_CAPITAL: %v", err)
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feeTypeRepo := repository.NewFeeTypeRepository(db)
	ruleRepo := repository.NewBillingRuleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	seqRepo := repository.NewSequenceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	registryService := service.NewRegistryService(classRepo, studentRepo, auditRepo)
	feeRuleService := service.NewFeeRuleService(feeTypeRepo, ruleRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, seqRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, studentRepo, feeTypeRepo, ruleRepo, schoolRepo, seqRepo, auditRepo, txManager, wsHub)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, studentRepo, schoolRepo, auditRepo, ledgerService, txManager, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, supplierRepo, schoolRepo, auditRepo, ledgerService, txManager, wsHub)
	supplierService := service.NewSupplierService(supplierRepo)
	reportService := service.NewReportService(ledgerRepo, openingCapital)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	registryHandler := handler.NewRegistryHandler(registryService)
	feeHandler := handler.NewFeeHandler(feeRuleService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	registryHandler.RegisterRoutes(root)
	feeHandler.RegisterRoutes(root)
	invoiceHandler.RegisterRoutes(root)
	paymentHandler.RegisterRoutes(root)
	expenseHandler.RegisterRoutes(root)
	supplierHandler.RegisterRoutes(root)
	ledgerHandler.RegisterRoutes(root)
	reportHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
