package strategy

import (
	"CDCSentinel/internal/calculator"
	"CDCSentinel/internal/model"
)

const (
	// MinSeriesLength is the shortest close series Classify will evaluate.
	MinSeriesLength = 30

	FastPeriod  = 12
	SlowPeriod  = 26
	StochLength = 14
	SmoothK     = 3
	SmoothD     = 3

	// Stochastic RSI gates for the buy-more / sell-more confirmation.
	OversoldK   = 30.0
	OverboughtK = 70.0
)

// Classify computes the CDC Action Zone signal of closes (oldest first).
//
// With current set the last two bars are compared; otherwise the comparison is shifted
// one bar back so a signal can be confirmed on a fully closed bar before acting on it.
// A zero EMA difference counts as crossed in both directions but is not bullish.
func Classify(closes []float64, current bool) model.Signal {
	if len(closes) < MinSeriesLength {
		return model.SignalIndeterminate
	}

	currIdx, prevIdx := len(closes)-1, len(closes)-2
	if !current {
		currIdx--
		prevIdx--
	}

	// Step 1: EMA12/EMA26 crossover
	diff := calculator.Diff(calculator.EMA(closes, FastPeriod), calculator.EMA(closes, SlowPeriod))
	curr, prev := diff[currIdx], diff[prevIdx]
	if prev < 0 && curr >= 0 {
		return model.SignalBuy
	}
	if prev > 0 && curr <= 0 {
		return model.SignalSell
	}

	// Step 2: stochastic RSI momentum inside the current trend
	rsi := calculator.RSI(closes, calculator.DefaultRSIPeriod)
	stoch := calculator.Stochastic(rsi, rsi, rsi, StochLength)
	k := calculator.SMA(stoch, SmoothK)
	d := calculator.SMA(k, SmoothD)
	kdCurr := k[currIdx] - d[currIdx]
	kdPrev := k[prevIdx] - d[prevIdx]
	lastK := k[len(k)-1]

	if curr > 0 {
		if kdPrev < 0 && kdCurr >= 0 && lastK < OversoldK {
			return model.SignalBuyMore
		}
		return model.SignalBullish
	}
	if kdPrev > 0 && kdCurr <= 0 && lastK > OverboughtK {
		return model.SignalSellMore
	}
	return model.SignalBearish
}
