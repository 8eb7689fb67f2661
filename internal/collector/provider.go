package collector

import (
	"context"
	"errors"

	"TickerLens/internal/model"
)

// ErrNoData signals that a provider has no history for the request.
var ErrNoData = errors.New("no data")

// Provider fetches raw price history for one symbol.
type Provider interface {
	History(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.RawSeries, error)
	Name() string
}
