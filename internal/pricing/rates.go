package pricing

import "github.com/jwaldner/condor/internal/models"

// ApproximateRiskFreeRate approximates the risk-free interest rate as the
// near-term treasury bill yield plus the inflation rate, both in percent.
// No clamping: a negative result is legitimate when inflation is negative.
func ApproximateRiskFreeRate(tBillRate, inflationRate models.Percent) models.Percent {
	return tBillRate + inflationRate
}
