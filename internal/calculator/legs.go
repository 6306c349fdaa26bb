// Package calculator derives pricing, risk, and return-scenario data for
// option trading strategies: single calls and puts, vertical spreads,
// straddles/strangles, and iron condors.
package calculator

import (
	"fmt"

	"github.com/jwaldner/condor/internal/models"
)

// ValidationError reports a strategy whose populated legs don't match its
// required shape. It names the strategy and what was missing so the caller
// can fix the request without reading engine internals.
type ValidationError struct {
	Strategy models.StrategyType
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s input: %s", e.Strategy, e.Reason)
}

func validationErrorf(strategy models.StrategyType, format string, args ...interface{}) error {
	return &ValidationError{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}

// singleLeg returns the call or put leg for the single-leg strategies,
// preferring the long side when both are populated.
func singleLeg(input *models.CalculatorInput) (*models.OptionLeg, bool, error) {
	switch input.Strategy {
	case models.StrategyCall:
		if input.LongCall != nil {
			return input.LongCall, false, nil
		}
		if input.ShortCall != nil {
			return input.ShortCall, true, nil
		}
		return nil, false, validationErrorf(input.Strategy, "longCall or shortCall required")
	case models.StrategyPut:
		if input.LongPut != nil {
			return input.LongPut, false, nil
		}
		if input.ShortPut != nil {
			return input.ShortPut, true, nil
		}
		return nil, false, validationErrorf(input.Strategy, "longPut or shortPut required")
	}
	return nil, false, validationErrorf(input.Strategy, "not a single-leg strategy")
}

// straddleLegs returns the (call, put) pair for a straddle/strangle and
// whether the pair is short. Mixed long/short pairings are rejected.
func straddleLegs(input *models.CalculatorInput) (call, put *models.OptionLeg, short bool, err error) {
	mixed := (input.LongCall != nil && input.ShortPut != nil) || (input.ShortCall != nil && input.LongPut != nil)
	if mixed {
		return nil, nil, false, validationErrorf(input.Strategy, "mixed long/short not allowed: call and put must both be long or both short")
	}
	if input.LongCall != nil && input.LongPut != nil {
		return input.LongCall, input.LongPut, false, nil
	}
	if input.ShortCall != nil && input.ShortPut != nil {
		return input.ShortCall, input.ShortPut, true, nil
	}
	return nil, nil, false, validationErrorf(input.Strategy, "both longCall and longPut or both shortCall and shortPut required")
}

// verticalSpreadLegs returns the (long, short) pair for a vertical spread
func verticalSpreadLegs(input *models.CalculatorInput) (long, short *models.OptionLeg, err error) {
	switch input.Strategy {
	case models.StrategyBullCallSpread, models.StrategyBearCallSpread:
		if input.LongCall == nil || input.ShortCall == nil {
			return nil, nil, validationErrorf(input.Strategy, "longCall and shortCall required")
		}
		return input.LongCall, input.ShortCall, nil
	case models.StrategyBullPutSpread, models.StrategyBearPutSpread:
		if input.LongPut == nil || input.ShortPut == nil {
			return nil, nil, validationErrorf(input.Strategy, "longPut and shortPut required")
		}
		return input.LongPut, input.ShortPut, nil
	}
	return nil, nil, validationErrorf(input.Strategy, "not a vertical spread strategy")
}

// ironCondorLegs returns all four legs of an iron condor
func ironCondorLegs(input *models.CalculatorInput) (longCall, shortCall, longPut, shortPut *models.OptionLeg, err error) {
	missing := ""
	if input.LongCall == nil {
		missing += " longCall"
	}
	if input.ShortCall == nil {
		missing += " shortCall"
	}
	if input.LongPut == nil {
		missing += " longPut"
	}
	if input.ShortPut == nil {
		missing += " shortPut"
	}
	if missing != "" {
		return nil, nil, nil, nil, validationErrorf(input.Strategy, "missing required legs:%s", missing)
	}
	return input.LongCall, input.ShortCall, input.LongPut, input.ShortPut, nil
}

// SelectLegs validates the input against its strategy's required shape and
// returns the canonical leg set used for entry cost and scenario pricing.
func SelectLegs(input *models.CalculatorInput) ([]*models.OptionLeg, error) {
	switch input.Strategy {
	case models.StrategyCall, models.StrategyPut:
		leg, _, err := singleLeg(input)
		if err != nil {
			return nil, err
		}
		return []*models.OptionLeg{leg}, nil

	case models.StrategyStraddleStrangle:
		call, put, _, err := straddleLegs(input)
		if err != nil {
			return nil, err
		}
		return []*models.OptionLeg{call, put}, nil

	case models.StrategyBullCallSpread, models.StrategyBearCallSpread,
		models.StrategyBullPutSpread, models.StrategyBearPutSpread:
		long, short, err := verticalSpreadLegs(input)
		if err != nil {
			return nil, err
		}
		return []*models.OptionLeg{long, short}, nil

	case models.StrategyIronCondor:
		longCall, shortCall, longPut, shortPut, err := ironCondorLegs(input)
		if err != nil {
			return nil, err
		}
		return []*models.OptionLeg{longCall, shortCall, longPut, shortPut}, nil
	}
	return nil, validationErrorf(input.Strategy, "unknown strategy")
}
