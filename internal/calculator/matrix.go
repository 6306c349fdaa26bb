package calculator

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwaldner/condor/internal/econ"
	"github.com/jwaldner/condor/internal/models"
	"github.com/jwaldner/condor/internal/pricing"
)

const (
	// Exchange-local trading timezone used for the date axis
	marketTimezone = "America/New_York"

	// Axis caps; steps widen until the counts fit
	maxDateCount  = 90
	maxPriceCount = 30

	// Price axis step granularity in currency units
	priceStepIncrement = 0.05
)

// BuildReturnMatrix projects the strategy's value over a grid of future
// dates and underlying prices. Rates come from the econ gateway, one
// implied volatility is solved per leg, and every (price, date) cell is
// re-priced with Black-Scholes.
//
// Matrix cells are aggregate theoretical position value (sum over legs of
// model price x quantity x 100), not profit relative to entry cost.
func BuildReturnMatrix(ctx context.Context, input *models.CalculatorInput, econAPI econ.API) (*models.ReturnsTable, error) {
	loc, err := time.LoadLocation(marketTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load market timezone: %v", err)
	}
	return buildReturnMatrixAt(ctx, input, econAPI, time.Now().In(loc))
}

func buildReturnMatrixAt(ctx context.Context, input *models.CalculatorInput, econAPI econ.API, now time.Time) (*models.ReturnsTable, error) {
	legs, err := SelectLegs(input)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, validationErrorf(input.Strategy, "cannot calculate returns for zero-leg strategy")
	}
	for _, leg := range legs {
		if leg.Type != models.Call && leg.Type != models.Put {
			return nil, validationErrorf(input.Strategy, "every leg needs a type (CALL or PUT) for scenario pricing")
		}
	}

	// Calendar spreads and other mixed-expiry shapes are not supported
	for _, leg := range legs[1:] {
		if leg.Expiry != legs[0].Expiry {
			return nil, validationErrorf(input.Strategy, "strategies with varying expiries not supported")
		}
	}

	expiry, err := legs[0].ExpiryTime(now.Location())
	if err != nil {
		return nil, err
	}

	dates := datesForReturnMatrix(expiry, now)
	prices := pricesForReturnMatrix(legs[0].UnderlyingPrice, legs[0].Strike, expiry, now)

	// The two rate lookups are independent
	var inflationRate, tBillRate models.Percent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rate, err := econAPI.GetInflationRate(gctx)
		if err != nil {
			return fmt.Errorf("inflation rate unavailable: %w", err)
		}
		inflationRate = rate
		return nil
	})
	g.Go(func() error {
		rate, err := econAPI.GetNearestTBillRate(gctx, expiry)
		if err != nil {
			return fmt.Errorf("treasury bill rate unavailable: %w", err)
		}
		tBillRate = rate
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	riskFreeRate := pricing.ApproximateRiskFreeRate(tBillRate, inflationRate)

	// One IV solve per leg, independent across legs. A single failed
	// solve aborts the grid - every cell needs every leg's volatility.
	legsWithIV := make([]models.OptionLegWithIV, len(legs))
	g, _ = errgroup.WithContext(ctx)
	for i, leg := range legs {
		i, leg := i, leg
		g.Go(func() error {
			iv, err := pricing.SolveImpliedVolatility(leg, riskFreeRate, now)
			if err != nil {
				return err
			}
			legsWithIV[i] = models.OptionLegWithIV{OptionLeg: *leg, ImpliedVolatility: iv}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Cells are independent; evaluate one price row per goroutine with
	// final placement fixed by row index
	matrix := make([][]float64, len(prices))
	g, _ = errgroup.WithContext(ctx)
	for i, price := range prices {
		i, price := i, price
		g.Go(func() error {
			row := make([]float64, len(dates))
			for j, date := range dates {
				yearsToExpiry := pricing.YearsToExpiry(expiry, date)
				cell := 0.0
				for _, leg := range legsWithIV {
					legPrice := pricing.BlackScholes(price, leg.Strike, yearsToExpiry,
						leg.ImpliedVolatility.Fraction(), riskFreeRate.Fraction(), leg.Type)
					cell += legPrice * float64(leg.Quantity) * models.ContractMultiplier
				}
				row[j] = cell
			}
			matrix[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dateStrings := make([]string, len(dates))
	for i, d := range dates {
		dateStrings[i] = d.Format("2006-01-02")
	}

	return &models.ReturnsTable{
		Dates:            dateStrings,
		UnderlyingPrices: prices,
		DataMatrix:       matrix,
	}, nil
}

// datesForReturnMatrix builds the ascending date axis from now up to (not
// including) expiry, stepping by the smallest whole-day interval that
// keeps the axis at or under maxDateCount entries. The axis always starts
// at now, even for already-expired input.
func datesForReturnMatrix(expiry, now time.Time) []time.Time {
	daysToExpiry := int(math.Ceil(expiry.Sub(now).Hours() / 24.0))
	if daysToExpiry < 1 {
		daysToExpiry = 1
	}

	interval := 1
	for float64(daysToExpiry)/float64(interval) >= maxDateCount {
		interval++
	}

	var dates []time.Time
	for i := 0; i < daysToExpiry; i += interval {
		dates = append(dates, now.AddDate(0, 0, i))
	}
	return dates
}

// pricesForReturnMatrix builds the descending price axis. The range spans
// the underlying price and the first leg's strike, widened on both ends by
// a fraction of the underlying price that grows with the logarithm of
// days to expiry, floored at zero. The step starts at 0.05 and widens in
// 0.05 increments until at most maxPriceCount points remain.
func pricesForReturnMatrix(underlyingPrice, strike float64, expiry, now time.Time) []float64 {
	daysToExpiry := int(expiry.Sub(now).Hours() / 24.0)
	if daysToExpiry < 0 {
		daysToExpiry = 0
	}
	widenPct := priceStepIncrement * math.Log10(1.0+float64(daysToExpiry))

	minValueOfInterest := math.Min(underlyingPrice, strike)
	maxValueOfInterest := math.Max(underlyingPrice, strike)
	maxPrice := math.Ceil(maxValueOfInterest + widenPct*underlyingPrice)
	minPrice := math.Max(0, math.Floor(minValueOfInterest-widenPct*underlyingPrice))
	priceRange := maxPrice - minPrice

	interval := priceStepIncrement
	for priceRange/interval > maxPriceCount {
		interval += priceStepIncrement
	}

	var prices []float64
	for p := maxPrice; p >= minPrice; p -= interval {
		prices = append(prices, p)
	}
	return prices
}

// ComputeReturns runs the synchronous payoff calculation and the scenario
// grid together, producing the complete calculator result.
func ComputeReturns(ctx context.Context, input *models.CalculatorInput, econAPI econ.API) (*models.CalculatorResult, error) {
	result, err := ComputePayoff(input)
	if err != nil {
		return nil, err
	}
	table, err := BuildReturnMatrix(ctx, input, econAPI)
	if err != nil {
		return nil, err
	}
	result.ReturnsTable = table
	return result, nil
}
