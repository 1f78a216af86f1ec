package calculator

// Periods below 1 are treated as 1 by every average in this package.
func normalizePeriod(period int) int {
	if period < 1 {
		return 1
	}
	return period
}

// SMA computes the simple moving average of series over period.
// The output has one value per input. The first period-1 values are the mean of
// the samples seen so far rather than zero or NaN.
func SMA(series []float64, period int) []float64 {
	period = normalizePeriod(period)
	out := make([]float64, len(series))
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		n := i + 1
		if n > period {
			n = period
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RMA is Wilder's rolling average (alpha = 1/period), seeded at zero.
func RMA(series []float64, period int) []float64 {
	alpha := 1 / float64(normalizePeriod(period))
	return smooth(series, alpha)
}

// EMA is the exponential moving average (alpha = 2/(period+1)), seeded at zero.
func EMA(series []float64, period int) []float64 {
	return smooth(series, emaAlpha(period))
}

// EMANext returns the EMA value that follows prev when v is appended to the series.
func EMANext(prev, v float64, period int) float64 {
	alpha := emaAlpha(period)
	return alpha*v + (1-alpha)*prev
}

func emaAlpha(period int) float64 {
	return 2 / (float64(normalizePeriod(period)) + 1)
}

func smooth(series []float64, alpha float64) []float64 {
	out := make([]float64, len(series))
	prev := 0.0
	for i, v := range series {
		prev = alpha*v + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// Diff returns a[i]-b[i] for the common prefix of a and b.
func Diff(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}
