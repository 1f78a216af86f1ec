package calculator

import "math"

// DefaultRSIPeriod is the classic Wilder RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the Wilder-smoothed relative strength index for every point of series.
//
// When series holds fewer than period+1 points the result is all NaN (see IsUndefined).
// The bar before the series counts as a close of zero, so the first change is the
// first close itself, in line with the zero-seeded averages. An average loss of zero
// saturates the value at 100.
func RSI(series []float64, period int) []float64 {
	period = normalizePeriod(period)
	out := make([]float64, len(series))
	if len(series) < period+1 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	gains := make([]float64, len(series))
	losses := make([]float64, len(series))
	prev := 0.0
	for i, v := range series {
		change := v - prev
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
		prev = v
	}
	avgGain := RMA(gains, period)
	avgLoss := RMA(losses, period)

	for i := range out {
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// IsUndefined reports whether series is the all-NaN result of an RSI with too little history.
func IsUndefined(series []float64) bool {
	if len(series) == 0 {
		return false
	}
	for _, v := range series {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
