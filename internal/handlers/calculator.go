package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/jwaldner/condor/internal/calculator"
	"github.com/jwaldner/condor/internal/econ"
	"github.com/jwaldner/condor/internal/logger"
	"github.com/jwaldner/condor/internal/models"
)

// CalculatorHandler serves the strategy payoff and return-matrix endpoints
type CalculatorHandler struct {
	econAPI econ.API
}

func NewCalculatorHandler(econAPI econ.API) *CalculatorHandler {
	return &CalculatorHandler{econAPI: econAPI}
}

func setJSONHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

// decodeInput parses and boundary-validates a calculator request. The core
// assumes numerically sane legs; this is where that contract is enforced.
func decodeInput(r *http.Request) (*models.CalculatorInput, error) {
	var input models.CalculatorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, fmt.Errorf("invalid request body: %v", err)
	}
	if input.Strategy == "" {
		return nil, errors.New("strategy is required")
	}

	legs := map[string]*models.OptionLeg{
		"long_call":  input.LongCall,
		"short_call": input.ShortCall,
		"long_put":   input.LongPut,
		"short_put":  input.ShortPut,
	}
	for name, leg := range legs {
		if leg == nil {
			continue
		}
		if leg.Quantity <= 0 {
			return nil, fmt.Errorf("%s: quantity must be a positive integer", name)
		}
		if leg.Strike <= 0 {
			return nil, fmt.Errorf("%s: strike must be positive", name)
		}
		if leg.CurrentPrice < 0 {
			return nil, fmt.Errorf("%s: current_price cannot be negative", name)
		}
		if leg.UnderlyingPrice < 0 {
			return nil, fmt.Errorf("%s: underlying_price cannot be negative", name)
		}
	}
	return &input, nil
}

// PayoffHandler computes entry cost, max risk/return, and breakeven.
// Synchronous, no outbound calls.
func (h *CalculatorHandler) PayoffHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	input, err := decodeInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := calculator.ComputePayoff(input)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	json.NewEncoder(w).Encode(result)
}

// CalculateHandler computes the full result including the scenario grid,
// which requires the econ gateway for rates.
func (h *CalculatorHandler) CalculateHandler(w http.ResponseWriter, r *http.Request) {
	setJSONHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	input, err := decodeInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := calculator.ComputeReturns(r.Context(), input, h.econAPI)
	if err != nil {
		logger.Warn.Printf("⚠️  Calculation failed for %s: %v", input.Strategy, err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	sanitizeResult(result)
	json.NewEncoder(w).Encode(result)
}

// statusForError maps shape/validation problems to 400 and everything else
// (rate gateway failures, non-convergence) to 502
func statusForError(err error) int {
	var validationErr *calculator.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// sanitizeResult zeroes any non-finite matrix cells before they hit the
// JSON encoder, which cannot represent Inf/NaN
func sanitizeResult(result *models.CalculatorResult) {
	if result.ReturnsTable == nil {
		return
	}
	for i, row := range result.ReturnsTable.DataMatrix {
		for j, cell := range row {
			if math.IsInf(cell, 0) || math.IsNaN(cell) {
				logger.Warn.Printf("🔧 Sanitized non-finite matrix cell [%d][%d]=%v", i, j, cell)
				row[j] = 0
			}
		}
	}
}
