package stocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwaldner/condor/internal/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "key-id", "secret")
	return client, server
}

func TestGetQuote(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("APCA-API-KEY-ID") != "key-id" {
			t.Errorf("Expected API key header to be set")
		}
		if !strings.Contains(r.URL.Path, "/v2/stocks/AAPL/bars/latest") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"bar": {"c": 227.52}, "symbol": "AAPL"}`))
	})
	defer server.Close()

	quote, err := client.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %s", quote.Symbol)
	}
	if quote.Price != 227.52 {
		t.Errorf("Expected price 227.52, got %v", quote.Price)
	}
}

func TestGetQuoteNoPriceData(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bar": {"c": 0}, "symbol": "XXXX"}`))
	})
	defer server.Close()

	if _, err := client.GetQuote(context.Background(), "XXXX"); err == nil {
		t.Error("Expected error for zero close price, got nil")
	}
}

func TestGetQuoteUpstreamError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "forbidden"}`))
	})
	defer server.Close()

	_, err := client.GetQuote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Expected error for 403 response, got nil")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
}

func TestGetOptionsChainGroupsAndSorts(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("underlying_symbols") != "SPY" {
			t.Errorf("Expected underlying_symbols=SPY, got %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"option_contracts": [
			{"symbol": "SPY260619C00550000", "underlying_symbol": "SPY", "type": "call", "expiration_date": "2026-06-19", "strike_price": "550", "close_price": "12.40"},
			{"symbol": "SPY260417P00540000", "underlying_symbol": "SPY", "type": "put", "expiration_date": "2026-04-17", "strike_price": "540", "close_price": 8.15},
			{"symbol": "SPY260619C00540000", "underlying_symbol": "SPY", "type": "call", "expiration_date": "2026-06-19", "strike_price": "540", "close_price": null},
			{"symbol": "SPY260417C00545000", "underlying_symbol": "SPY", "type": "call", "expiration_date": "2026-04-17", "strike_price": "545", "close_price": "9.90"},
			{"symbol": "SPYBAD", "underlying_symbol": "SPY", "type": "swaption", "expiration_date": "2026-04-17", "strike_price": "545", "close_price": "1.00"}
		], "next_page_token": null}`))
	})
	defer server.Close()

	chain, err := client.GetOptionsChain(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("GetOptionsChain failed: %v", err)
	}

	if len(chain) != 2 {
		t.Fatalf("Expected 2 expiries, got %d", len(chain))
	}
	if chain[0].Expiry != "2026-04-17" || chain[1].Expiry != "2026-06-19" {
		t.Errorf("Expected expiries sorted ascending, got %s, %s", chain[0].Expiry, chain[1].Expiry)
	}

	// Unknown contract types are skipped, not fatal
	if len(chain[0].Calls) != 1 || len(chain[0].Puts) != 1 {
		t.Errorf("Expected 1 call and 1 put for first expiry, got %d/%d", len(chain[0].Calls), len(chain[0].Puts))
	}

	june := chain[1]
	if len(june.Calls) != 2 {
		t.Fatalf("Expected 2 calls for June expiry, got %d", len(june.Calls))
	}
	if june.Calls[0].Strike != 540 || june.Calls[1].Strike != 550 {
		t.Errorf("Expected strikes ascending 540, 550, got %v, %v", june.Calls[0].Strike, june.Calls[1].Strike)
	}
	if june.Calls[0].Type != models.Call {
		t.Errorf("Expected call type, got %s", june.Calls[0].Type)
	}
	if june.Calls[1].LastPrice != 12.40 {
		t.Errorf("Expected string close_price parsed to 12.40, got %v", june.Calls[1].LastPrice)
	}
	if june.Calls[0].LastPrice != 0 {
		t.Errorf("Expected null close_price to default to 0, got %v", june.Calls[0].LastPrice)
	}
}
