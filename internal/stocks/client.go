package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jwaldner/condor/internal/logger"
	"github.com/jwaldner/condor/internal/models"
)

const (
	// HTTP timeout for market data requests
	DefaultTimeout = 30 * time.Second
)

// Client fetches quotes and option chains from an Alpaca-compatible
// market data API. It implements the API interface.
type Client struct {
	BaseURL    string
	APIKey     string
	SecretKey  string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, secretKey string) *Client {
	return &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		APIKey:    apiKey,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Add("APCA-API-KEY-ID", c.APIKey)
	req.Header.Add("APCA-API-SECRET-KEY", c.SecretKey)

	logger.Verbose.Printf("📡 STOCKS API CALL: %s", req.URL.String())
	startTime := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Verbose.Printf("❌ Stocks API call failed after %v: %v", time.Since(startTime), err)
		return err
	}
	defer resp.Body.Close()
	logger.Verbose.Printf("⏱️ Stocks API call completed in %v (status: %d)", time.Since(startTime), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stocks API error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode stocks response: %v", err)
	}
	return nil
}

// GetQuote fetches the latest bar close for a symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	var barResp struct {
		Bar struct {
			Close float64 `json:"c"`
		} `json:"bar"`
		Symbol string `json:"symbol"`
	}
	endpoint := fmt.Sprintf("/v2/stocks/%s/bars/latest", symbol)
	if err := c.doGet(ctx, endpoint, &barResp); err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	if barResp.Bar.Close <= 0 {
		return nil, fmt.Errorf("no price data for %s", symbol)
	}
	return &Quote{Symbol: symbol, Price: barResp.Bar.Close}, nil
}

// chainContract is the wire format of one listed contract
type chainContract struct {
	Symbol           string      `json:"symbol"`
	UnderlyingSymbol string      `json:"underlying_symbol"`
	Type             string      `json:"type"`
	ExpirationDate   string      `json:"expiration_date"`
	StrikePrice      string      `json:"strike_price"`
	ClosePrice       interface{} `json:"close_price"`
}

type chainResponse struct {
	Contracts     []chainContract `json:"option_contracts"`
	NextPageToken interface{}     `json:"next_page_token"`
}

// GetOptionsChain fetches all listed contracts for a symbol and groups
// them by expiration date, calls and puts separated, strikes ascending.
func (c *Client) GetOptionsChain(ctx context.Context, symbol string) ([]OptionsForExpiry, error) {
	var chainResp chainResponse
	endpoint := fmt.Sprintf("/v2/options/contracts?underlying_symbols=%s&limit=10000", symbol)
	if err := c.doGet(ctx, endpoint, &chainResp); err != nil {
		return nil, fmt.Errorf("failed to fetch option chain for %s: %w", symbol, err)
	}

	byExpiry := make(map[string]*OptionsForExpiry)
	var expiries []string
	for _, raw := range chainResp.Contracts {
		contract, err := parseChainContract(raw)
		if err != nil {
			logger.Debug.Printf("skipping contract %s: %v", raw.Symbol, err)
			continue
		}

		group, ok := byExpiry[contract.Expiry]
		if !ok {
			group = &OptionsForExpiry{Expiry: contract.Expiry}
			byExpiry[contract.Expiry] = group
			expiries = append(expiries, contract.Expiry)
		}
		if contract.Type == models.Call {
			group.Calls = append(group.Calls, contract)
		} else {
			group.Puts = append(group.Puts, contract)
		}
	}

	sort.Strings(expiries)
	result := make([]OptionsForExpiry, 0, len(expiries))
	for _, expiry := range expiries {
		group := byExpiry[expiry]
		sort.Slice(group.Calls, func(i, j int) bool { return group.Calls[i].Strike < group.Calls[j].Strike })
		sort.Slice(group.Puts, func(i, j int) bool { return group.Puts[i].Strike < group.Puts[j].Strike })
		result = append(result, *group)
	}
	return result, nil
}

func parseChainContract(raw chainContract) (ChainContract, error) {
	strike, err := strconv.ParseFloat(raw.StrikePrice, 64)
	if err != nil {
		return ChainContract{}, fmt.Errorf("bad strike %q: %v", raw.StrikePrice, err)
	}

	var optionType models.OptionType
	switch strings.ToLower(raw.Type) {
	case "call":
		optionType = models.Call
	case "put":
		optionType = models.Put
	default:
		return ChainContract{}, fmt.Errorf("unknown option type %q", raw.Type)
	}

	lastPrice := 0.0
	switch v := raw.ClosePrice.(type) {
	case float64:
		lastPrice = v
	case string:
		lastPrice, _ = strconv.ParseFloat(v, 64)
	}

	return ChainContract{
		Symbol:           raw.Symbol,
		UnderlyingSymbol: raw.UnderlyingSymbol,
		Type:             optionType,
		Strike:           strike,
		Expiry:           raw.ExpirationDate,
		LastPrice:        lastPrice,
	}, nil
}
