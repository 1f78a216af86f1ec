package collector

import (
	"context"
	"fmt"
	"time"

	"CDCSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Exchange string
	Closes   map[string][]float64
	Tickers  map[model.Quote][]string
	Errors   map[string]error
}

func (m *MockFetcher) Name() string {
	if m.Exchange == "" {
		return "mock"
	}
	return m.Exchange
}

func (m *MockFetcher) FetchCandles(_ context.Context, symbol string, _ model.Interval, limit int) ([]model.OHLCV, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	closes, ok := m.Closes[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownSymbol, symbol, m.Name())
	}
	bars := BarsFromCloses(closes, time.Now())
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func (m *MockFetcher) ListTickers(_ context.Context, quote model.Quote) ([]string, error) {
	if err, ok := m.Errors["tickers"]; ok {
		return nil, err
	}
	return m.Tickers[quote], nil
}

// BarsFromCloses builds daily bars ending at end from a close series.
func BarsFromCloses(closes []float64, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(len(closes) - 1 - i)),
			Open:   c,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}
