package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"TickerLens/internal/model"
)

// StaticProvider returns controllable fixed data for development and testing.
// With Series unset it generates a deterministic wave around BasePrice.
type StaticProvider struct {
	BasePrice float64
	Series    *model.RawSeries
	Err       error
}

func (s *StaticProvider) Name() string { return "mock" }

func (s *StaticProvider) History(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Series != nil {
		if len(s.Series.Records) == 0 {
			return nil, fmt.Errorf("static %s: %w", symbol, ErrNoData)
		}
		return s.Series, nil
	}
	price := s.BasePrice
	if price <= 0 {
		price = 100
	}
	return GenerateSeries(symbol, price, barCount(period, interval), interval, time.Now().UTC()), nil
}

// GenerateSeries builds n complete bars ending at end, spaced by interval.
func GenerateSeries(symbol string, basePrice float64, n int, interval model.Interval, end time.Time) *model.RawSeries {
	series := &model.RawSeries{Symbol: symbol, Columns: append([]string{}, model.RequiredColumns...)}
	for i := 0; i < n; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/6) + float64(i-n/2)*0.001)
		series.Records = append(series.Records, model.RawRecord{
			Time: step(end, interval, -(n - 1 - i)),
			Values: map[string]interface{}{
				model.ColOpen:   p * 0.999,
				model.ColHigh:   p * 1.005,
				model.ColLow:    p * 0.995,
				model.ColClose:  p,
				model.ColVolume: 1000000.0,
			},
		})
	}
	return series
}

func barCount(period model.Period, interval model.Interval) int {
	months := period.Months()
	switch interval {
	case model.Interval1wk:
		return months * 52 / 12
	case model.Interval1mo:
		return months
	default:
		return months * 21
	}
}

func step(t time.Time, interval model.Interval, n int) time.Time {
	switch interval {
	case model.Interval1wk:
		return t.AddDate(0, 0, 7*n)
	case model.Interval1mo:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}
