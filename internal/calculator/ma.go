package calculator

import (
	"github.com/guregu/null/v6"
	talib "github.com/markcheno/go-talib"
)

// SMA computes the trailing simple moving average of closes over period.
// The first period-1 values are undefined.
func SMA(closes []float64, period int) []null.Float {
	out := make([]null.Float, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	sma := talib.Sma(closes, period)
	for i := period - 1; i < len(sma); i++ {
		out[i] = null.FloatFrom(sma[i])
	}
	return out
}
