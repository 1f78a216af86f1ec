package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Interval is a candle timeframe understood by every fetcher.
type Interval string

const (
	Interval1h Interval = "1h"
	Interval4h Interval = "4h"
	Interval1d Interval = "1d"
	Interval1w Interval = "1w"
)

// Quote selects which family of trading pairs a scan covers.
type Quote string

const (
	QuoteUSDT Quote = "usdt"
	QuoteBTC  Quote = "btc"
	QuoteTHB  Quote = "thb"
)

// Closes extracts the close column of bars, oldest first.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Dashboard holds the auxiliary market indices shown in the Bitcoin dashboard.
type Dashboard struct {
	BTCPrice          float64
	BTCDominance      float64 // percent of total market cap
	FearGreed         float64
	FearGreedPrevious float64
	FetchedAt         time.Time
}
