package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jwaldner/condor/internal/config"
	"github.com/jwaldner/condor/internal/econ"
	"github.com/jwaldner/condor/internal/handlers"
	"github.com/jwaldner/condor/internal/logger"
	"github.com/jwaldner/condor/internal/stocks"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if err := logger.InitWithConfig(cfg.Logging.LogLevel, cfg.Logging.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger.Info.Printf("🚀 Condor options calculator starting - Port: %s", cfg.Port)

	if cfg.Econ.APIKey == "" {
		logger.Warn.Printf("⚠️  ECON_API_KEY not set - rate lookups may be throttled or rejected")
	}

	econClient := econ.NewClient(cfg.Econ.BaseURL, cfg.Econ.APIKey)
	stocksClient := stocks.NewClient(cfg.Stocks.BaseURL, cfg.Stocks.APIKey, cfg.Stocks.SecretKey)

	calculatorHandler := handlers.NewCalculatorHandler(econClient)
	marketHandler := handlers.NewMarketHandler(stocksClient, econClient)

	r := mux.NewRouter()

	// Calculator endpoints
	r.HandleFunc("/api/payoff", calculatorHandler.PayoffHandler).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/calculate", calculatorHandler.CalculateHandler).Methods("POST", "OPTIONS")

	// Market data endpoints
	r.HandleFunc("/api/quote", marketHandler.QuoteHandler).Methods("GET")
	r.HandleFunc("/api/chain", marketHandler.ChainHandler).Methods("GET")

	// Service endpoints
	r.HandleFunc("/api/health", marketHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/test-connection", marketHandler.TestConnectionHandler).Methods("GET")

	fmt.Printf("🌐 Server starting on http://localhost:%s\n", cfg.Port)
	logger.Info.Printf("🌐 HTTP server started on port %s", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
