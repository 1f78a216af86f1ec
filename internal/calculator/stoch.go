package calculator

import "math"

// Stochastic computes 100*(src-lowest)/(highest-lowest) over a window of length points
// ending at each index. Indices before the first full window are padded with zeros, which
// skews the earliest length-1 outputs. A flat window (highest == lowest) yields 0.
func Stochastic(src, high, low []float64, length int) []float64 {
	length = normalizePeriod(length)
	n := len(src)
	if len(high) < n {
		n = len(high)
	}
	if len(low) < n {
		n = len(low)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		highest := math.Inf(-1)
		lowest := math.Inf(1)
		for j := i - length + 1; j <= i; j++ {
			h, l := 0.0, 0.0
			if j >= 0 {
				h, l = high[j], low[j]
			}
			if h > highest {
				highest = h
			}
			if l < lowest {
				lowest = l
			}
		}
		if highest == lowest {
			out[i] = 0
			continue
		}
		out[i] = 100 * (src[i] - lowest) / (highest - lowest)
	}
	return out
}
