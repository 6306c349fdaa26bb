package stocks

import (
	"context"

	"github.com/jwaldner/condor/internal/models"
)

// Quote is a point-in-time stock quote
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// ChainContract is one listed contract in an option chain
type ChainContract struct {
	Symbol           string            `json:"symbol"`
	UnderlyingSymbol string            `json:"underlying_symbol"`
	Type             models.OptionType `json:"type"`
	Strike           float64           `json:"strike"`
	Expiry           string            `json:"expiry"` // YYYY-MM-DD
	LastPrice        float64           `json:"last_price"`
}

// OptionsForExpiry groups a chain by expiration date
type OptionsForExpiry struct {
	Expiry string          `json:"expiry"`
	Calls  []ChainContract `json:"calls"`
	Puts   []ChainContract `json:"puts"`
}

// API is the narrow quote/chain capability the service needs from a
// market data provider.
type API interface {
	// GetQuote fetches the current price for a symbol
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// GetOptionsChain fetches the option chain for a symbol, grouped by
	// expiration date
	GetOptionsChain(ctx context.Context, symbol string) ([]OptionsForExpiry, error)
}

// AutocompleteMatch is one symbol lookup result
type AutocompleteMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// AutocompleteAPI is the symbol lookup capability. Network retrieval is a
// collaborator concern; the engine only depends on the shape.
type AutocompleteAPI interface {
	GetAutocompleteMatches(ctx context.Context, query string) ([]AutocompleteMatch, error)
}
