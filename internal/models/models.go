package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContractMultiplier is the standard share count behind one option contract.
const ContractMultiplier = 100

// OptionType identifies a contract as a call or a put
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// StrategyType identifies the option strategy being analyzed
type StrategyType string

const (
	StrategyCall             StrategyType = "CALL"
	StrategyPut              StrategyType = "PUT"
	StrategyStraddleStrangle StrategyType = "STRADDLE_STRANGLE"
	StrategyBullCallSpread   StrategyType = "BULL_CALL_SPREAD"
	StrategyBearCallSpread   StrategyType = "BEAR_CALL_SPREAD"
	StrategyBullPutSpread    StrategyType = "BULL_PUT_SPREAD"
	StrategyBearPutSpread    StrategyType = "BEAR_PUT_SPREAD"
	StrategyIronCondor       StrategyType = "IRON_CONDOR"
)

// Percent is a rate or volatility expressed in percent (4.25 means 4.25%).
// Pricing math wants decimal fractions; Fraction() is the single place the
// division by 100 happens, so percent vs fraction mixups can't creep in.
type Percent float64

// Fraction converts the percent value to a decimal fraction (4.25% -> 0.0425)
func (p Percent) Fraction() float64 {
	return float64(p) / 100.0
}

// Amount is a money value that may be unbounded (e.g. max risk of a naked
// short call). The zero value is a bounded zero. Unbounded amounts marshal
// to JSON null, matching the calculator's external contract.
type Amount struct {
	value     float64
	unbounded bool
}

// Bounded wraps a concrete money value
func Bounded(v float64) Amount {
	return Amount{value: v}
}

// Unbounded returns the unbounded sentinel
func Unbounded() Amount {
	return Amount{unbounded: true}
}

// IsUnbounded reports whether the amount has no finite bound
func (a Amount) IsUnbounded() bool {
	return a.unbounded
}

// Value returns the bounded value; valid only when IsUnbounded is false
func (a Amount) Value() float64 {
	return a.value
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.unbounded {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Unbounded()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Bounded(v)
	return nil
}

func (a Amount) String() string {
	if a.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f", a.value)
}

// OptionLeg is one leg of an option strategy. Legs are constructed once per
// request and never mutated.
type OptionLeg struct {
	Quantity         int        `json:"quantity"`
	CurrentPrice     float64    `json:"current_price"` // premium per share
	Strike           float64    `json:"strike"`
	Expiry           string     `json:"expiry"` // YYYY-MM-DD
	Type             OptionType `json:"type,omitempty"`
	UnderlyingPrice  float64    `json:"underlying_price,omitempty"`
	UnderlyingSymbol string     `json:"underlying_symbol,omitempty"`
}

// ExpiryTime parses the leg expiry in the given location
func (l *OptionLeg) ExpiryTime(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", l.Expiry, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q: %v", l.Expiry, err)
	}
	return t, nil
}

// OptionLegWithIV is a leg annotated with its solved implied volatility.
// Built transiently during scenario evaluation, never persisted.
type OptionLegWithIV struct {
	OptionLeg
	ImpliedVolatility Percent `json:"implied_volatility"`
}

// CalculatorInput is a strategy plus up to four legs. Which legs must be
// populated depends on the strategy; see calculator.SelectLegs.
type CalculatorInput struct {
	Strategy  StrategyType `json:"strategy"`
	LongCall  *OptionLeg   `json:"long_call,omitempty"`
	ShortCall *OptionLeg   `json:"short_call,omitempty"`
	LongPut   *OptionLeg   `json:"long_put,omitempty"`
	ShortPut  *OptionLeg   `json:"short_put,omitempty"`
}

// ReturnsTable is the scenario grid: DataMatrix[i][j] is the aggregate
// theoretical value at UnderlyingPrices[i] on Dates[j]. Dates ascend,
// prices descend.
type ReturnsTable struct {
	Dates            []string    `json:"dates"`
	UnderlyingPrices []float64   `json:"underlying_prices"`
	DataMatrix       [][]float64 `json:"data_matrix"`
}

// CalculatorResult is the full derived output for one strategy.
// EntryCost is signed: positive = net debit paid, negative = net credit
// received.
type CalculatorResult struct {
	EntryCost         float64       `json:"entry_cost"`
	MaxRisk           Amount        `json:"max_risk"`
	MaxReturn         Amount        `json:"max_return"`
	BreakEvenAtExpiry []float64     `json:"break_even_at_expiry"`
	ReturnsTable      *ReturnsTable `json:"returns_table,omitempty"`
}
