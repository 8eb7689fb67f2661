package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// EnrichedSeries is a cleaned series plus indicator values aligned to its bars.
// An invalid null.Float marks a value with insufficient history.
type EnrichedSeries struct {
	Symbol string       `json:"symbol"`
	Bars   []OHLCV      `json:"bars"`
	RSI    []null.Float `json:"rsi"`
	MACD   []null.Float `json:"macd"`
	Signal []null.Float `json:"signal"`
	SMA20  []null.Float `json:"sma20"`
	SMA50  []null.Float `json:"sma50"`
}

// Snapshot holds the indicator values of one bar.
type Snapshot struct {
	Time   time.Time
	Bar    OHLCV
	RSI    null.Float
	MACD   null.Float
	Signal null.Float
	SMA20  null.Float
	SMA50  null.Float
}

// Len returns the number of bars.
func (e *EnrichedSeries) Len() int { return len(e.Bars) }

// At returns the snapshot for bar i.
func (e *EnrichedSeries) At(i int) Snapshot {
	return Snapshot{
		Time:   e.Bars[i].Time,
		Bar:    e.Bars[i],
		RSI:    e.RSI[i],
		MACD:   e.MACD[i],
		Signal: e.Signal[i],
		SMA20:  e.SMA20[i],
		SMA50:  e.SMA50[i],
	}
}

// Latest returns the snapshot for the newest bar. ok is false for an empty series.
func (e *EnrichedSeries) Latest() (snap Snapshot, ok bool) {
	if len(e.Bars) == 0 {
		return Snapshot{}, false
	}
	return e.At(len(e.Bars) - 1), true
}
