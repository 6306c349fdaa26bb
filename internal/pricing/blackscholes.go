package pricing

import (
	"math"

	"github.com/jwaldner/condor/internal/models"
)

// normalCDF is the standard cumulative normal distribution
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// BlackScholes prices a European option with the standard closed form.
//
// spot and strike are per-share prices, yearsToExpiry is fractional years
// (negative values are floored to 0 - the model is undefined for negative
// time), volatility and riskFreeRate are decimal fractions (0.20 = 20%).
// Callers holding percent-denominated rates convert via models.Percent.
func BlackScholes(spot, strike, yearsToExpiry, volatility, riskFreeRate float64, optionType models.OptionType) float64 {
	if yearsToExpiry < 0 {
		yearsToExpiry = 0
	}

	// At zero time or zero volatility the price collapses to intrinsic value
	if yearsToExpiry == 0 || volatility <= 0 {
		if optionType == models.Call {
			return math.Max(0, spot-strike)
		}
		return math.Max(0, strike-spot)
	}

	sqrtT := math.Sqrt(yearsToExpiry)
	d1 := (math.Log(spot/strike) + (riskFreeRate+0.5*volatility*volatility)*yearsToExpiry) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT

	if optionType == models.Call {
		return spot*normalCDF(d1) - strike*math.Exp(-riskFreeRate*yearsToExpiry)*normalCDF(d2)
	}
	return strike*math.Exp(-riskFreeRate*yearsToExpiry)*normalCDF(-d2) - spot*normalCDF(-d1)
}
