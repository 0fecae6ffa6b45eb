package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"papertrade/config"
	"papertrade/database"
	"papertrade/handlers"
	"papertrade/ledger"
	"papertrade/middleware"
	"papertrade/portfolio"
	"papertrade/quotes"
	"papertrade/trading"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	// Initialize PostgreSQL and Redis connections.
	config.InitDB()
	config.InitRedis()

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(config.DB); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	// Wire the core: ledger store, quote provider, valuator, executor.
	store := ledger.NewStore(config.DB)
	users := ledger.NewUserStore(config.DB)
	provider := quotes.NewAlphaVantage(
		os.Getenv("ALPHA_VANTAGE_API_KEY"),
		config.Rdb,
		database.NewPriceHistory(config.DB),
	)
	valuator := portfolio.NewValuator(store, provider)
	executor := trading.NewExecutor(store, provider, valuator)

	h := handlers.New(store, users, provider, valuator, executor, config.LoadPasswordPolicy())

	router := gin.Default()
	router.Use(middleware.NoCache())
	router.LoadHTMLGlob("templates/*.html")

	// Public routes
	router.GET("/register", h.RegisterPage)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/quote", h.QuotePage)
	router.POST("/quote", h.Quote)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.SessionAuth())
	{
		auth.GET("/", h.Index)
		auth.GET("/buy", h.BuyPage)
		auth.POST("/buy", h.Buy)
		auth.GET("/sell", h.SellPage)
		auth.POST("/sell", h.Sell)
		auth.GET("/history", h.History)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	router.Run(addr)
}
