// Package calculator derives technical indicators from cleaned price series.
//
// Every indicator is returned as a slice aligned to the input bars, with an
// invalid null.Float wherever the history is too short for a value.
package calculator

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// Fixed indicator windows.
const (
	RSIPeriod  = 14
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
	SMAShort   = 20
	SMALong    = 50
)

// Compute derives RSI, MACD, Signal, SMA-20 and SMA-50 over the closing prices.
// Short history yields undefined values; only non-finite results fail.
func Compute(c *model.CleanedSeries) (es *model.EnrichedSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			es = nil
			err = model.NewIndicatorFailure(fmt.Errorf("panic: %v", r))
		}
	}()

	closes := c.Closes()
	bars := make([]model.OHLCV, len(c.Bars))
	copy(bars, c.Bars)

	macd, signal := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	es = &model.EnrichedSeries{
		Symbol: c.Symbol,
		Bars:   bars,
		RSI:    RSI(closes, RSIPeriod),
		MACD:   macd,
		Signal: signal,
		SMA20:  SMA(closes, SMAShort),
		SMA50:  SMA(closes, SMALong),
	}

	for _, s := range []struct {
		name   string
		values []null.Float
	}{
		{"RSI", es.RSI},
		{"MACD", es.MACD},
		{"Signal", es.Signal},
		{"SMA20", es.SMA20},
		{"SMA50", es.SMA50},
	} {
		if err := checkFinite(s.name, s.values); err != nil {
			return nil, model.NewIndicatorFailure(err)
		}
	}
	return es, nil
}

func checkFinite(name string, values []null.Float) error {
	for i, v := range values {
		if v.Valid && (math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0)) {
			return fmt.Errorf("%s[%d] is not finite (%v)", name, i, v.Float64)
		}
	}
	return nil
}
