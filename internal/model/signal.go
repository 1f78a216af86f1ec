package model

// Signal is the CDC Action Zone classification of a price series.
type Signal string

const (
	SignalBuy           Signal = "Buy"
	SignalSell          Signal = "Sell"
	SignalBuyMore       Signal = "BuyMore"
	SignalSellMore      Signal = "SellMore"
	SignalBullish       Signal = "Bullish"
	SignalBearish       Signal = "Bearish"
	SignalIndeterminate Signal = "Indeterminate"
)

func (s Signal) String() string { return string(s) }

// Actionable reports whether the signal asks the reader to open or close a position.
func (s Signal) Actionable() bool {
	switch s {
	case SignalBuy, SignalSell, SignalBuyMore, SignalSellMore:
		return true
	}
	return false
}

// SolverResult is the outcome of a crossover price search.
type SolverResult struct {
	Found        bool
	Price        float64 // rounded to Decimals; zero unless Found
	CurrentPrice float64
	Decimals     int
	Trials       int
	Explanation  string
}

// ScanReport groups the tickers of one exchange scan by actionable signal.
type ScanReport struct {
	Exchange string
	Quote    Quote
	Current  bool
	Buy      []string
	Sell     []string
	BuyMore  []string
	SellMore []string
	Scanned  int
	Skipped  int
}

// Add files ticker under the bucket of sig. Non-actionable signals are ignored.
func (r *ScanReport) Add(ticker string, sig Signal) {
	switch sig {
	case SignalBuy:
		r.Buy = append(r.Buy, ticker)
	case SignalSell:
		r.Sell = append(r.Sell, ticker)
	case SignalBuyMore:
		r.BuyMore = append(r.BuyMore, ticker)
	case SignalSellMore:
		r.SellMore = append(r.SellMore, ticker)
	}
}
