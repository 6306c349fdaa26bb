package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jwaldner/condor/internal/econ"
	"github.com/jwaldner/condor/internal/stocks"
)

// MarketHandler serves quote, chain, and connectivity endpoints
type MarketHandler struct {
	stocksAPI stocks.API
	econAPI   econ.API
}

func NewMarketHandler(stocksAPI stocks.API, econAPI econ.API) *MarketHandler {
	return &MarketHandler{stocksAPI: stocksAPI, econAPI: econAPI}
}

// QuoteHandler returns the current price for ?symbol=
func (h *MarketHandler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	quote, err := h.stocksAPI.GetQuote(r.Context(), symbol)
	if err != nil {
		respondError(w, http.StatusBadGateway, "quote lookup failed: "+err.Error())
		return
	}

	json.NewEncoder(w).Encode(quote)
}

// ChainHandler returns the option chain for ?symbol=, grouped by expiry
func (h *MarketHandler) ChainHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	chain, err := h.stocksAPI.GetOptionsChain(r.Context(), symbol)
	if err != nil {
		respondError(w, http.StatusBadGateway, "chain lookup failed: "+err.Error())
		return
	}

	json.NewEncoder(w).Encode(chain)
}

// HealthHandler reports process liveness
func (h *MarketHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// TestConnectionHandler verifies the econ gateway is reachable
func (h *MarketHandler) TestConnectionHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)

	if _, err := h.econAPI.GetInflationRate(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "econ API connection failed: "+err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "success",
		"message":   "econ API connection successful",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
