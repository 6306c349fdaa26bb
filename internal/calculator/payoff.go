package calculator

import (
	"math"

	"github.com/jwaldner/condor/internal/models"
)

func contractCost(leg *models.OptionLeg) float64 {
	return leg.CurrentPrice * float64(leg.Quantity)
}

// EntryCost computes the net cost to open the strategy, with the standard
// 100-share contract multiplier applied. Positive = net debit paid,
// negative = net credit received.
func EntryCost(input *models.CalculatorInput) (float64, error) {
	switch input.Strategy {
	case models.StrategyCall, models.StrategyPut:
		leg, short, err := singleLeg(input)
		if err != nil {
			return 0, err
		}
		cost := contractCost(leg)
		if short {
			cost = -cost
		}
		return cost * models.ContractMultiplier, nil

	case models.StrategyStraddleStrangle:
		call, put, short, err := straddleLegs(input)
		if err != nil {
			return 0, err
		}
		cost := contractCost(call) + contractCost(put)
		if short {
			cost = -cost
		}
		return cost * models.ContractMultiplier, nil

	case models.StrategyBullCallSpread, models.StrategyBearCallSpread,
		models.StrategyBullPutSpread, models.StrategyBearPutSpread:
		long, short, err := verticalSpreadLegs(input)
		if err != nil {
			return 0, err
		}
		return (contractCost(long) - contractCost(short)) * models.ContractMultiplier, nil

	case models.StrategyIronCondor:
		longCall, shortCall, longPut, shortPut, err := ironCondorLegs(input)
		if err != nil {
			return 0, err
		}
		callSpread := contractCost(longCall) - contractCost(shortCall)
		putSpread := contractCost(longPut) - contractCost(shortPut)
		return (callSpread + putSpread) * models.ContractMultiplier, nil
	}
	return 0, validationErrorf(input.Strategy, "unknown strategy")
}

// MaxRiskAndReturn computes the worst-case loss and best-case gain at
// expiry. Either side may be unbounded (naked short risk, long call
// upside).
func MaxRiskAndReturn(input *models.CalculatorInput) (maxRisk, maxReturn models.Amount, err error) {
	entryCost, err := EntryCost(input)
	if err != nil {
		return models.Amount{}, models.Amount{}, err
	}

	switch input.Strategy {
	case models.StrategyCall, models.StrategyPut, models.StrategyStraddleStrangle:
		if entryCost < 0 {
			// Credit received up front, unlimited exposure past the strike
			return models.Unbounded(), models.Bounded(-entryCost), nil
		}
		return models.Bounded(entryCost), models.Unbounded(), nil

	case models.StrategyBullCallSpread, models.StrategyBearPutSpread:
		// Debit verticals: risk the debit, collect up to the strike width
		var strikeWidth float64
		if input.Strategy == models.StrategyBullCallSpread {
			strikeWidth = input.ShortCall.Strike - input.LongCall.Strike
		} else {
			strikeWidth = input.LongPut.Strike - input.ShortPut.Strike
		}
		return models.Bounded(entryCost), models.Bounded(strikeWidth*models.ContractMultiplier - entryCost), nil

	case models.StrategyBearCallSpread, models.StrategyBullPutSpread:
		// Credit verticals: collect the credit, risk width minus credit
		var strikeWidth float64
		if input.Strategy == models.StrategyBearCallSpread {
			strikeWidth = input.LongCall.Strike - input.ShortCall.Strike
		} else {
			strikeWidth = input.ShortPut.Strike - input.LongPut.Strike
		}
		return models.Bounded(strikeWidth*models.ContractMultiplier + entryCost), models.Bounded(-entryCost), nil

	case models.StrategyIronCondor:
		callWidth := math.Abs(input.LongCall.Strike - input.ShortCall.Strike)
		putWidth := math.Abs(input.LongPut.Strike - input.ShortPut.Strike)
		maxWidth := math.Max(callWidth, putWidth)
		if entryCost < 0 {
			return models.Bounded(maxWidth*models.ContractMultiplier + entryCost), models.Bounded(-entryCost), nil
		}
		return models.Bounded(entryCost), models.Bounded(maxWidth*models.ContractMultiplier - entryCost), nil
	}
	return models.Amount{}, models.Amount{}, validationErrorf(input.Strategy, "unknown strategy")
}

func callBreakeven(leg *models.OptionLeg, long bool) float64 {
	if long {
		return leg.Strike + leg.CurrentPrice
	}
	return leg.Strike - leg.CurrentPrice
}

func putBreakeven(leg *models.OptionLeg, long bool) float64 {
	if long {
		return leg.Strike - leg.CurrentPrice
	}
	return leg.Strike + leg.CurrentPrice
}

// BreakevenAtExpiry computes the underlying price(s) at which the strategy
// breaks even at expiry: one price for single-leg and vertical strategies,
// two (call side first) for straddle/strangle and iron condor.
func BreakevenAtExpiry(input *models.CalculatorInput) ([]float64, error) {
	switch input.Strategy {
	case models.StrategyCall:
		leg, short, err := singleLeg(input)
		if err != nil {
			return nil, err
		}
		return []float64{callBreakeven(leg, !short)}, nil

	case models.StrategyPut:
		leg, short, err := singleLeg(input)
		if err != nil {
			return nil, err
		}
		return []float64{putBreakeven(leg, !short)}, nil

	case models.StrategyStraddleStrangle:
		call, put, short, err := straddleLegs(input)
		if err != nil {
			return nil, err
		}
		return []float64{callBreakeven(call, !short), putBreakeven(put, !short)}, nil

	case models.StrategyBullCallSpread, models.StrategyBearCallSpread:
		// The breakeven anchors on the call whose premium defines the
		// spread's character: long call for the debit spread, short call
		// for the credit spread.
		if input.Strategy == models.StrategyBullCallSpread {
			if input.LongCall == nil {
				return nil, validationErrorf(input.Strategy, "longCall required")
			}
			return []float64{input.LongCall.Strike + input.LongCall.CurrentPrice}, nil
		}
		if input.ShortCall == nil {
			return nil, validationErrorf(input.Strategy, "shortCall required")
		}
		return []float64{input.ShortCall.Strike + input.ShortCall.CurrentPrice}, nil

	case models.StrategyBullPutSpread, models.StrategyBearPutSpread:
		// Mirrored rule on the put side
		if input.Strategy == models.StrategyBullPutSpread {
			if input.ShortPut == nil {
				return nil, validationErrorf(input.Strategy, "shortPut required")
			}
			return []float64{input.ShortPut.Strike - input.ShortPut.CurrentPrice}, nil
		}
		if input.LongPut == nil {
			return nil, validationErrorf(input.Strategy, "longPut required")
		}
		return []float64{input.LongPut.Strike - input.LongPut.CurrentPrice}, nil

	case models.StrategyIronCondor:
		if input.ShortCall == nil || input.ShortPut == nil {
			return nil, validationErrorf(input.Strategy, "shortCall and shortPut required")
		}
		return []float64{
			input.ShortCall.Strike + input.ShortCall.CurrentPrice,
			input.ShortPut.Strike - input.ShortPut.CurrentPrice,
		}, nil
	}
	return nil, validationErrorf(input.Strategy, "unknown strategy")
}

// ComputePayoff bundles entry cost, max risk/return, and breakeven into a
// single synchronous result. Pure: identical input yields identical output.
func ComputePayoff(input *models.CalculatorInput) (*models.CalculatorResult, error) {
	entryCost, err := EntryCost(input)
	if err != nil {
		return nil, err
	}
	maxRisk, maxReturn, err := MaxRiskAndReturn(input)
	if err != nil {
		return nil, err
	}
	breakeven, err := BreakevenAtExpiry(input)
	if err != nil {
		return nil, err
	}
	return &models.CalculatorResult{
		EntryCost:         entryCost,
		MaxRisk:           maxRisk,
		MaxReturn:         maxReturn,
		BreakEvenAtExpiry: breakeven,
	}, nil
}
