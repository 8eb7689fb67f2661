package strategy

import (
	"log"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// Biases maps a total score to a label, highest threshold first.
var Biases = []struct {
	MinScore float64
	Bias     model.Bias
}{
	{1.0, model.BiasStrongBull},
	{0.3, model.BiasBull},
	{-0.3, model.BiasNeutral},
	{-1.0, model.BiasBear},
}

// DefaultBias is the label for scores below every threshold.
var DefaultBias = model.BiasStrongBear

func mapBias(totalScore float64) model.Bias {
	for _, b := range Biases {
		if totalScore >= b.MinScore {
			return b.Bias
		}
	}
	return DefaultBias
}

// Evaluate summarizes the newest bar of an enriched series. It returns nil
// for an empty series.
func Evaluate(series *model.EnrichedSeries) *model.Outlook {
	cur, ok := series.Latest()
	if !ok {
		return nil
	}
	prev := cur
	if n := series.Len(); n > 1 {
		prev = series.At(n - 2)
	}

	position := 0.5
	if high, low, err := calculator.PriceRange(series.Bars); err != nil {
		log.Printf("[WARN] range calculation failed: %v", err)
	} else if pos, err := calculator.RangePosition(cur.Bar.Close, high, low); err != nil {
		log.Printf("[WARN] range position calculation failed: %v", err)
	} else {
		position = pos
	}

	f1 := scoreRSI(cur.RSI)
	f2 := scoreTrend(cur, position)
	f3 := scoreMomentum(prev, cur)
	otherFactorsAvg := (f1.RawScore + f2.RawScore + f3.RawScore) / 3.0
	f4 := scoreRangePosition(position, otherFactorsAvg)

	totalScore := f1.Weighted + f2.Weighted + f3.Weighted + f4.Weighted
	outlook := &model.Outlook{
		Factors:    []model.FactorScore{f1, f2, f3, f4},
		TotalScore: totalScore,
		Bias:       mapBias(totalScore),
	}

	switch {
	case cur.RSI.Valid && cur.RSI.Float64 > 85:
		outlook.WarningMsg = "⚠️ RSI > 85: overbought"
	case cur.RSI.Valid && cur.RSI.Float64 < 15:
		outlook.WarningMsg = "⚠️ RSI < 15: oversold"
	}
	return outlook
}
