package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwaldner/condor/internal/stocks"
)

// fakeStocksAPI serves canned quotes and chains
type fakeStocksAPI struct {
	quote    *stocks.Quote
	chain    []stocks.OptionsForExpiry
	quoteErr error
	chainErr error
}

func (f *fakeStocksAPI) GetQuote(ctx context.Context, symbol string) (*stocks.Quote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeStocksAPI) GetOptionsChain(ctx context.Context, symbol string) ([]stocks.OptionsForExpiry, error) {
	return f.chain, f.chainErr
}

func TestQuoteHandler(t *testing.T) {
	handler := NewMarketHandler(&fakeStocksAPI{quote: &stocks.Quote{Symbol: "AAPL", Price: 227.52}}, &fakeEconAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/quote?symbol=AAPL", nil)
	recorder := httptest.NewRecorder()
	handler.QuoteHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	var quote stocks.Quote
	if err := json.Unmarshal(recorder.Body.Bytes(), &quote); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if quote.Price != 227.52 {
		t.Errorf("Expected price 227.52, got %v", quote.Price)
	}
}

func TestQuoteHandlerMissingSymbol(t *testing.T) {
	handler := NewMarketHandler(&fakeStocksAPI{}, &fakeEconAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
	recorder := httptest.NewRecorder()
	handler.QuoteHandler(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing symbol, got %d", recorder.Code)
	}
}

func TestQuoteHandlerGatewayFailure(t *testing.T) {
	handler := NewMarketHandler(&fakeStocksAPI{quoteErr: errors.New("upstream down")}, &fakeEconAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/quote?symbol=AAPL", nil)
	recorder := httptest.NewRecorder()
	handler.QuoteHandler(recorder, req)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for gateway failure, got %d", recorder.Code)
	}
}

func TestChainHandler(t *testing.T) {
	chain := []stocks.OptionsForExpiry{
		{Expiry: "2026-04-17", Calls: []stocks.ChainContract{{Symbol: "SPY260417C00545000", Strike: 545}}},
	}
	handler := NewMarketHandler(&fakeStocksAPI{chain: chain}, &fakeEconAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/chain?symbol=SPY", nil)
	recorder := httptest.NewRecorder()
	handler.ChainHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	var decoded []stocks.OptionsForExpiry
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Expiry != "2026-04-17" {
		t.Errorf("Unexpected chain response: %+v", decoded)
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewMarketHandler(&fakeStocksAPI{}, &fakeEconAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	recorder := httptest.NewRecorder()
	handler.HealthHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"status"`) {
		t.Errorf("Expected status field, got: %s", recorder.Body.String())
	}
}

func TestTestConnectionHandler(t *testing.T) {
	handler := NewMarketHandler(&fakeStocksAPI{}, &fakeEconAPI{inflation: 2.5})

	req := httptest.NewRequest(http.MethodGet, "/api/test-connection", nil)
	recorder := httptest.NewRecorder()
	handler.TestConnectionHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 when econ API reachable, got %d", recorder.Code)
	}

	handler = NewMarketHandler(&fakeStocksAPI{}, &fakeEconAPI{inflationErr: errors.New("timeout")})
	recorder = httptest.NewRecorder()
	handler.TestConnectionHandler(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 when econ API unreachable, got %d", recorder.Code)
	}
}
