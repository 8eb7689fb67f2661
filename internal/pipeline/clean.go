package pipeline

import "TickerLens/internal/model"

// Clean drops every bar with a missing required field, preserving order.
// Nothing is interpolated or carried forward.
func Clean(v *model.ValidatedSeries) *model.CleanedSeries {
	out := &model.CleanedSeries{
		Symbol: v.Symbol,
		Bars:   make([]model.OHLCV, 0, len(v.Bars)),
	}
	for _, b := range v.Bars {
		if !b.Complete() {
			out.Dropped++
			continue
		}
		out.Bars = append(out.Bars, model.OHLCV{
			Time:   b.Time,
			Open:   b.Open.Float64,
			High:   b.High.Float64,
			Low:    b.Low.Float64,
			Close:  b.Close.Float64,
			Volume: b.Volume.Float64,
		})
	}
	return out
}
