package econ

import (
	"context"
	"time"

	"github.com/jwaldner/condor/internal/models"
)

// API is the capability the scenario engine needs from an economic data
// source. Both rates come back in percent. Implementations must return an
// error when data is unavailable - the calculator never substitutes a
// default rate.
type API interface {
	// GetInflationRate fetches the latest year-over-year inflation rate
	GetInflationRate(ctx context.Context) (models.Percent, error)

	// GetNearestTBillRate fetches the yield of the treasury bill maturing
	// nearest to the target date
	GetNearestTBillRate(ctx context.Context, target time.Time) (models.Percent, error)
}
