package strategy

import (
	"math"
	"testing"

	"CDCSentinel/internal/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEMADiff(closes []float64) float64 {
	fast := calculator.EMA(closes, FastPeriod)
	slow := calculator.EMA(closes, SlowPeriod)
	return fast[len(fast)-1] - slow[len(slow)-1]
}

// bearishSeries settles at 100 then falls 2 per bar to 60.
func bearishSeries() []float64 {
	closes := flat(30, 100)
	for i := 1; i <= 20; i++ {
		closes = append(closes, 100-2*float64(i))
	}
	return closes
}

// subCentSeries is bearishSeries scaled down to end at 0.00042.
func subCentSeries() []float64 {
	closes := flat(30, 0.0007)
	for i := 1; i <= 20; i++ {
		closes = append(closes, 0.0007-0.000014*float64(i))
	}
	return closes
}

// bullishSeries settles at 100 then climbs 0.5 per bar to 110.
func bullishSeries() []float64 {
	closes := flat(80, 100)
	for i := 1; i <= 20; i++ {
		closes = append(closes, 100+0.5*float64(i))
	}
	return closes
}

func TestSolve_RoundTrip(t *testing.T) {
	for name, closes := range map[string][]float64{
		"bearish": bearishSeries(),
		"bullish": bullishSeries(),
		"sub-cent": subCentSeries(),
	} {
		t.Run(name, func(t *testing.T) {
			before := lastEMADiff(closes)
			res, err := Solve(closes, DefaultMaxTrials)
			require.NoError(t, err)
			require.True(t, res.Found, res.Explanation)

			degree, _ := priceScale(closes[len(closes)-1])
			tolerance := math.Pow(10, float64(degree)) / 1000 / 10

			patched := append([]float64(nil), closes...)
			patched[len(patched)-1] = res.Price
			after := lastEMADiff(patched)
			flipped := math.Signbit(before) != math.Signbit(after)
			assert.True(t, flipped || math.Abs(after) < tolerance, "before=%v after=%v", before, after)
		})
	}
}

func TestSolve_Explanation(t *testing.T) {
	res, err := Solve(bearishSeries(), 0)
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.InDelta(t, 146.7, res.Price, 1e-9)
	assert.Equal(t, 4, res.Decimals)
	assert.Equal(t, 60.0, res.CurrentPrice)
	assert.Contains(t, res.Explanation, "If today's price closed at $146.7000, CDC V3 Action Zone will be bullish")
	assert.Contains(t, res.Explanation, "That will be +$86.7000 (+144.50%) from the current price ($60.0000)")

	res, err = Solve(bullishSeries(), 0)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Less(t, res.Price, 110.0)
	assert.Contains(t, res.Explanation, "will be bearish")
	assert.Contains(t, res.Explanation, "That will be -$")
}

func TestSolve_SubCentPrice(t *testing.T) {
	res, err := Solve(subCentSeries(), 0)
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.Equal(t, 8, res.Decimals)
	assert.Equal(t, 6070, res.Trials)
	assert.InDelta(t, 0.0010269, res.Price, 1e-12)
	assert.Equal(t, "If today's price closed at $0.00102690, CDC V3 Action Zone will be bullish\n"+
		"That will be +$0.00060690 (+144.50%) from the current price ($0.00042000)", res.Explanation)
}

func TestExplain_RoundsExactBinaryValue(t *testing.T) {
	// 1.00105 is stored just below the tie, so it rounds down at 4 places
	got := explain(1.00105, 1, -1, 4)
	assert.Equal(t, "If today's price closed at $1.0010, CDC V3 Action Zone will be bullish\n"+
		"That will be +$0.0010 (+0.10%) from the current price ($1.0000)", got)
}

func TestSolve_DoesNotMutateInput(t *testing.T) {
	closes := bearishSeries()
	original := append([]float64(nil), closes...)
	_, err := Solve(closes, 0)
	require.NoError(t, err)
	assert.Equal(t, original, closes)
}

func TestSolve_AtBoundaryTerminatesOnFirstTrial(t *testing.T) {
	closes := bearishSeries()
	// Choose the last close that zeroes EMA12-EMA26 exactly.
	prefix := closes[:len(closes)-1]
	fast := calculator.EMA(prefix, FastPeriod)
	slow := calculator.EMA(prefix, SlowPeriod)
	aFast, aSlow := 2.0/(FastPeriod+1), 2.0/(SlowPeriod+1)
	closes[len(closes)-1] = ((1-aSlow)*slow[len(slow)-1] - (1-aFast)*fast[len(fast)-1]) / (aFast - aSlow)
	require.Greater(t, closes[len(closes)-1], 0.0)

	res, err := Solve(closes, DefaultMaxTrials)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 1, res.Trials)
}

func TestSolve_NoSolutionIsNotAnError(t *testing.T) {
	// A steady climb from 1 would need a negative close to turn bearish.
	res, err := Solve(ramp(1, 40), DefaultMaxTrials)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Zero(t, res.Price)
	assert.Equal(t, "Could not solve for a solution!", res.Explanation)
	assert.Less(t, res.Trials, DefaultMaxTrials)

	res, err = Solve(bearishSeries(), 10)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 11, res.Trials)
}

func TestSolve_Preconditions(t *testing.T) {
	_, err := Solve(flat(SlowPeriod-1, 100), 0)
	assert.ErrorIs(t, err, ErrSeriesTooShort)

	closes := flat(40, 100)
	closes[len(closes)-1] = 0
	_, err = Solve(closes, 0)
	assert.ErrorIs(t, err, ErrNonPositivePrice)
}

func TestPriceScale(t *testing.T) {
	tests := []struct {
		price    float64
		degree   int
		decimals int
	}{
		{12345.6, 4, 4},
		{60, 1, 4},
		{1, 0, 4},
		{0.5, -1, 5},
		{0.01, -2, 6},
		{0.000123, -4, 8},
	}
	for _, tt := range tests {
		degree, decimals := priceScale(tt.price)
		assert.Equal(t, tt.degree, degree, "price %v", tt.price)
		assert.Equal(t, tt.decimals, decimals, "price %v", tt.price)
	}
}
