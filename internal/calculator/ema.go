package calculator

import "github.com/guregu/null/v6"

// EMA computes the exponential moving average with smoothing factor 2/(span+1).
// The average is seeded with the first value and reported once span values
// have been observed.
func EMA(values []float64, span int) []null.Float {
	out := make([]null.Float, len(values))
	if span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	var ema float64
	for i, v := range values {
		if i == 0 {
			ema = v
		} else {
			ema = alpha*v + (1-alpha)*ema
		}
		if i >= span-1 {
			out[i] = null.FloatFrom(ema)
		}
	}
	return out
}

// emaDefined runs EMA over the defined values of series, leaving the
// undefined prefix untouched.
func emaDefined(series []null.Float, span int) []null.Float {
	out := make([]null.Float, len(series))
	start := -1
	for i, v := range series {
		if v.Valid {
			start = i
			break
		}
	}
	if start < 0 {
		return out
	}
	values := make([]float64, 0, len(series)-start)
	for _, v := range series[start:] {
		values = append(values, v.Float64)
	}
	copy(out[start:], EMA(values, span))
	return out
}

// MACD returns EMA(fast) - EMA(slow) and the signal line EMA(signal) of it.
// MACD is undefined until the slow EMA is; the signal line needs a further
// signal-1 MACD values.
func MACD(closes []float64, fast, slow, signal int) (macd, sig []null.Float) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	macd = make([]null.Float, len(closes))
	for i := range closes {
		if fastEMA[i].Valid && slowEMA[i].Valid {
			macd[i] = null.FloatFrom(fastEMA[i].Float64 - slowEMA[i].Float64)
		}
	}
	return macd, emaDefined(macd, signal)
}
