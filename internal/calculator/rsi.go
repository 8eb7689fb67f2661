package calculator

import "github.com/guregu/null/v6"

// RSI computes the Wilder-smoothed RSI series over the given period.
// Average gain and loss are seeded with the first change and smoothed with
// factor 1/period. The first period values are undefined.
func RSI(closes []float64, period int) []null.Float {
	out := make([]null.Float, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	p := float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain += (gain - avgGain) / p
			avgLoss += (loss - avgLoss) / p
		}

		if i >= period {
			out[i] = null.FloatFrom(rsiValue(avgGain, avgLoss))
		}
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
