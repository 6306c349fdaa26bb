package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/jwaldner/condor/internal/models"
)

const (
	// Volatility search bounds as decimal fractions (0% to 500%)
	minVolatility = 0.0
	maxVolatility = 5.0

	// Absolute price tolerance in currency units
	ivTolerance = 0.01

	// Bisection halves the bracket each pass; 100 passes is far past
	// float64 resolution, so hitting the cap means no solution exists
	// in the bracket.
	ivMaxIterations = 100

	hoursPerYear = 24.0 * 365.0
)

// YearsToExpiry returns the signed difference between expiry and now in
// fractional years. Can be negative for expired contracts; BlackScholes
// floors negative time to zero.
func YearsToExpiry(expiry, now time.Time) float64 {
	return expiry.Sub(now).Hours() / hoursPerYear
}

// SolveImpliedVolatility estimates the implied volatility of a leg: the
// volatility whose Black-Scholes price matches the leg's observed market
// price within ivTolerance. riskFreeRate is percent; the result is percent.
//
// The search is a bounded bisection on [0%, 500%]. Black-Scholes price is
// monotonically non-decreasing in volatility, so the bracket always
// shrinks toward the root when one exists. Degenerate inputs (market price
// below intrinsic value, zero-vega regions) have no root in the bracket
// and come back as a convergence error rather than a bogus estimate.
func SolveImpliedVolatility(leg *models.OptionLeg, riskFreeRate models.Percent, now time.Time) (models.Percent, error) {
	expiry, err := leg.ExpiryTime(now.Location())
	if err != nil {
		return 0, err
	}
	yearsToExpiry := YearsToExpiry(expiry, now)

	lo, hi := minVolatility, maxVolatility
	for i := 0; i < ivMaxIterations; i++ {
		vol := (lo + hi) / 2.0
		price := BlackScholes(leg.UnderlyingPrice, leg.Strike, yearsToExpiry, vol, riskFreeRate.Fraction(), leg.Type)

		diff := price - leg.CurrentPrice
		if math.Abs(diff) <= ivTolerance {
			return models.Percent(vol * 100.0), nil
		}
		if diff < 0 {
			lo = vol
		} else {
			hi = vol
		}
	}

	return 0, fmt.Errorf("implied volatility did not converge for %s %s strike %.2f (market price %.2f)",
		leg.UnderlyingSymbol, leg.Type, leg.Strike, leg.CurrentPrice)
}
