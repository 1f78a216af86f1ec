package strategy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"CDCSentinel/internal/calculator"
	"CDCSentinel/internal/model"
)

// DefaultMaxTrials bounds the crossover price search.
const DefaultMaxTrials = 100000

var (
	ErrSeriesTooShort   = errors.New("series too short for EMA crossover")
	ErrNonPositivePrice = errors.New("current price must be positive")
)

// Solve searches for the close of the final bar that would make EMA12 and EMA26 cross.
//
// The search is a fixed-step linear scan starting at the current close and moving
// against the current trend. Not finding a price within maxTrials (or before the trial
// price turns negative) is a normal result with Found == false. closes is never modified.
func Solve(closes []float64, maxTrials int) (*model.SolverResult, error) {
	if len(closes) < SlowPeriod {
		return nil, fmt.Errorf("%w: have %d closes, need %d", ErrSeriesTooShort, len(closes), SlowPeriod)
	}
	currentPrice := closes[len(closes)-1]
	if currentPrice <= 0 || math.IsNaN(currentPrice) {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositivePrice, currentPrice)
	}
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials
	}

	fast := calculator.EMA(closes, FastPeriod)
	slow := calculator.EMA(closes, SlowPeriod)
	emaDiff := fast[len(fast)-1] - slow[len(slow)-1]

	// EMA values up to the bar before the one being tried. Only the last bar changes
	// between trials, so one recursion step per trial reproduces a full recomputation.
	n := len(closes)
	prevFast, prevSlow := fast[n-2], slow[n-2]

	degree, decimals := priceScale(currentPrice)
	resolution := math.Pow(10, float64(degree))
	delta := resolution / 1000
	if emaDiff >= 0 {
		// bullish, step the price down
		delta = -delta
	}
	tolerance := math.Abs(delta) / 10

	result := &model.SolverResult{CurrentPrice: currentPrice, Decimals: decimals}
	trial := currentPrice
	for trials := 1; ; trials++ {
		result.Trials = trials
		if trial < 0 || trials > maxTrials {
			result.Explanation = "Could not solve for a solution!"
			return result, nil
		}
		diff := calculator.EMANext(prevFast, trial, FastPeriod) - calculator.EMANext(prevSlow, trial, SlowPeriod)
		if math.Abs(diff) < tolerance {
			result.Found = true
			result.Price, _ = strconv.ParseFloat(fixed(trial, decimals), 64)
			result.Explanation = explain(trial, currentPrice, emaDiff, decimals)
			return result, nil
		}
		trial += delta
	}
}

// priceScale returns the search resolution exponent and display precision for price.
// Prices of 1 or more step by 10^(integer digits-1) and print 4 decimals; smaller prices
// derive both from the count of zeros right after the decimal point.
func priceScale(price float64) (degree, decimals int) {
	abs := math.Abs(price)
	if abs >= 1 {
		digits := len(strconv.FormatFloat(math.Trunc(abs), 'f', 0, 64))
		return digits - 1, 4
	}
	frac := strings.TrimPrefix(strconv.FormatFloat(abs, 'f', 20, 64), "0.")
	zeros := len(frac) - len(strings.TrimLeft(frac, "0"))
	degree = -zeros - 1
	return degree, -degree + 4
}

func explain(price, currentPrice, emaDiff float64, decimals int) string {
	outlook := "bullish"
	if emaDiff > 0 {
		outlook = "bearish"
	}
	priceDiff := price - currentPrice
	sign := "-"
	if priceDiff > 0 {
		sign = "+"
	}
	percent := fixed(math.Abs(priceDiff/currentPrice*100), 2)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("If today's price closed at $%s, CDC V3 Action Zone will be %s", fixed(price, decimals), outlook))
	b.WriteString(fmt.Sprintf("\nThat will be %s$%s (%s%s%%) from the current price ($%s)",
		sign, fixed(math.Abs(priceDiff), decimals), sign, percent, fixed(currentPrice, decimals)))
	return b.String()
}

// fixed renders v with the given decimals, rounding the exact binary value.
func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
