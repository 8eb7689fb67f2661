package strategy

import (
	"fmt"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

const notEnoughHistory = "not enough history"

func undefinedFactor(name string, weight float64) model.FactorScore {
	return model.FactorScore{Name: name, Weight: weight, Commentary: notEnoughHistory}
}

// scoreRSI scores the latest RSI(14) zone. Oversold readings score positive.
// Weight: 0.35
func scoreRSI(rsi null.Float) model.FactorScore {
	const name, weight = "RSI zone", 0.35
	if !rsi.Valid {
		return undefinedFactor(name, weight)
	}
	v := rsi.Float64
	var score float64
	switch {
	case v <= 25:
		score = 2.0
	case v <= 30:
		score = 1.5
	case v <= 40:
		score = 1.0
	case v <= 45:
		score = 0.5
	case v <= 55:
		score = 0
	case v <= 60:
		score = -0.5
	case v <= 70:
		score = -1.0
	case v <= 80:
		score = -1.5
	default:
		score = -2.0
	}

	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("RSI=%.0f", v),
	}
}

// scoreTrend scores SMA alignment, boosted when the close sits at a range extreme.
// Weight: 0.30
// Bull alignment: close > SMA20 > SMA50
// Bear alignment: close < SMA20 < SMA50
func scoreTrend(snap model.Snapshot, position float64) model.FactorScore {
	const name, weight = "Trend", 0.30
	if !snap.SMA20.Valid || !snap.SMA50.Valid {
		return undefinedFactor(name, weight)
	}
	price := snap.Bar.Close
	bullish := price > snap.SMA20.Float64 && snap.SMA20.Float64 > snap.SMA50.Float64
	bearish := price < snap.SMA20.Float64 && snap.SMA20.Float64 < snap.SMA50.Float64

	var score float64
	var commentary string
	switch {
	case bullish && position >= 0.99:
		score = 1.5
		commentary = "bull alignment at range high"
	case bullish:
		score = 1.0
		commentary = "bull alignment"
	case bearish && position <= 0.01:
		score = -1.5
		commentary = "bear alignment at range low"
	case bearish:
		score = -1.0
		commentary = "bear alignment"
	default:
		score = 0
		commentary = "sideways"
	}

	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

// scoreMomentum scores MACD against its Signal line; a crossover on the
// latest bar scores strongest.
// Weight: 0.25
func scoreMomentum(prev, cur model.Snapshot) model.FactorScore {
	const name, weight = "MACD momentum", 0.25
	if !cur.MACD.Valid || !cur.Signal.Valid {
		return undefinedFactor(name, weight)
	}
	diff := cur.MACD.Float64 - cur.Signal.Float64
	crossed := prev.MACD.Valid && prev.Signal.Valid &&
		(prev.MACD.Float64-prev.Signal.Float64)*diff < 0

	var score float64
	var commentary string
	switch {
	case crossed && diff > 0:
		score = 2.0
		commentary = "bullish crossover"
	case crossed && diff < 0:
		score = -2.0
		commentary = "bearish crossover"
	case diff > 0 && cur.MACD.Float64 > 0:
		score = 1.0
		commentary = "above signal, positive"
	case diff > 0:
		score = 0.5
		commentary = "above signal"
	case diff < 0 && cur.MACD.Float64 < 0:
		score = -1.0
		commentary = "below signal, negative"
	case diff < 0:
		score = -0.5
		commentary = "below signal"
	default:
		commentary = "flat"
	}

	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("%s (hist %+.3f)", commentary, diff),
	}
}

// scoreRangePosition scores where the close sits in the window's high/low range.
// Weight: 0.10
// Special logic: near the top it only reaches -2 when the other factors agree.
func scoreRangePosition(position, otherFactorsAvg float64) model.FactorScore {
	const name, weight = "Range position", 0.10
	pos := position * 100

	var score float64
	switch {
	case pos <= 10:
		score = 2.0
	case pos <= 20:
		score = 1.5
	case pos <= 30:
		score = 1.0
	case pos <= 40:
		score = 0.5
	case pos <= 60:
		score = 0
	case pos <= 70:
		score = -0.5
	case pos <= 80:
		score = -1.0
	case pos <= 95:
		score = -1.5
	default:
		if otherFactorsAvg < -1 {
			score = -2.0
		} else {
			score = -1.0
		}
	}

	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("position=%.0f%%", pos),
	}
}
