package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CDCSentinel/internal/collector"
	"CDCSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, chatID int64, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID, text})
	return f.err
}

func (f *fakeNotifier) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.text
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// crossUp turns the EMA12/EMA26 difference positive on its last bar.
func crossUp() []float64 {
	closes := flat(20, 100)
	for v := 99.0; v >= 80; v-- {
		closes = append(closes, v)
	}
	return append(closes, 200)
}

// falling settles at 100 then drops 2 per bar to 60.
func falling() []float64 {
	closes := flat(30, 100)
	for i := 1; i <= 20; i++ {
		closes = append(closes, 100-2*float64(i))
	}
	return closes
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeNotifier) {
	t.Helper()
	binance := &collector.MockFetcher{
		Exchange: "binance",
		Tickers: map[model.Quote][]string{
			model.QuoteUSDT: {"ETHUSDT", "BTCUSDT"},
			model.QuoteBTC:  {"ETHBTC"},
		},
		Closes: map[string][]float64{
			"BTCUSDT":  falling(),
			"ETHUSDT":  crossUp(),
			"ETHBTC":   crossUp(),
			"TINYUSDT": flat(10, 1),
		},
	}
	okx := &collector.MockFetcher{
		Exchange: "okx",
		Tickers:  map[model.Quote][]string{model.QuoteBTC: {"SOL-BTC"}},
		Closes:   map[string][]float64{"SOL-BTC": crossUp()},
	}
	bitkub := &collector.MockFetcher{
		Exchange: "bitkub",
		Tickers:  map[model.Quote][]string{model.QuoteTHB: {"BTC_THB"}},
		Closes:   map[string][]float64{"BTC_THB": crossUp()},
	}
	n := &fakeNotifier{}
	dash := func(context.Context) (*model.Dashboard, error) {
		return &model.Dashboard{BTCPrice: 65000, BTCDominance: 51.2, FearGreed: 40, FearGreedPrevious: 50}, nil
	}
	s := NewScheduler(context.Background(), collector.NewRegistry(binance, okx, bitkub), n, dash,
		map[string]int64{"binance": 1, "bitkub": 2})
	s.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, n
}

func TestSendSummary_Binance(t *testing.T) {
	s, n := newTestScheduler(t)
	require.NoError(t, s.RunSummaryNow(context.Background(), "binance"))

	texts := n.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "🕒 (UTC) 02-01-2024 03:04:05", texts[0])
	assert.Contains(t, texts[1], "[BINANCE]")
	assert.Contains(t, texts[1], "(Buy Next Bar) - buy now! 🟢\nETHUSDT\n")
	assert.Contains(t, texts[2], "(Buy Next Bar) - buy now! 🟢\nETHBTC\n")
	for _, m := range n.sent {
		assert.Equal(t, int64(1), m.chatID)
	}
}

func TestSendSummary_BitkubUsesTHB(t *testing.T) {
	s, n := newTestScheduler(t)
	require.NoError(t, s.RunSummaryNow(context.Background(), "BITKUB"))

	texts := n.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[1], "[BITKUB]")
	assert.Contains(t, texts[1], "BTCTHB")
}

func TestRunSummaryNow_Errors(t *testing.T) {
	s, _ := newTestScheduler(t)
	assert.ErrorIs(t, s.RunSummaryNow(context.Background(), "kucoin"), collector.ErrExchangeNotFound)
	assert.ErrorContains(t, s.RunSummaryNow(context.Background(), "okex"), "no chat configured for okx")

	err := s.SendSummary(context.Background(), "ftx", 9)
	assert.ErrorIs(t, err, collector.ErrExchangeNotFound)
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll("0 5 0 * * *"))
	assert.Len(t, s.Cron.Entries(), 2)

	s, _ = newTestScheduler(t)
	assert.Error(t, s.RegisterAll("not a cron"))

	s, _ = newTestScheduler(t)
	s.Chats["kucoin"] = 3
	assert.ErrorIs(t, s.RegisterAll("0 5 0 * * *"), collector.ErrExchangeNotFound)
}

func TestHandleCommand_CDC(t *testing.T) {
	s, n := newTestScheduler(t)
	reply := s.HandleCommand(context.Background(), 42, "cdc", "")
	assert.Empty(t, reply)

	texts := n.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Computing XXXUSDT pairs")
	assert.Contains(t, texts[1], "ETHUSDT")
	assert.Equal(t, int64(42), n.sent[1].chatID)
}

func TestHandleCommand_CDCBTCScansOKX(t *testing.T) {
	s, n := newTestScheduler(t)
	assert.Empty(t, s.HandleCommand(context.Background(), 42, "/cdcprev", "BTC"))

	texts := n.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[1], "[BINANCE]")
	assert.Contains(t, texts[1], "previous bar")
	assert.Contains(t, texts[2], "[OKX]")
}

func TestHandleCommand_CDCRejectsQuote(t *testing.T) {
	s, n := newTestScheduler(t)
	reply := s.HandleCommand(context.Background(), 42, "cdc", "eth")
	assert.Equal(t, "Unrecognized argument: eth. Only usdt|btc available", reply)
	assert.Empty(t, n.texts())
}

func TestHandleCommand_Solve(t *testing.T) {
	s, _ := newTestScheduler(t)

	reply := s.HandleCommand(context.Background(), 42, "solve", "btc")
	assert.Contains(t, reply, "[BTCUSDT]")
	assert.Contains(t, reply, "If today's price closed at $146.7000, CDC V3 Action Zone will be bullish")

	assert.Equal(t, "Unrecognize pair name `NOPEUSDT` on Binance", s.HandleCommand(context.Background(), 42, "solve", "nope"))
	assert.Equal(t, "Unrecognize pair name `TINYUSDT` on Binance", s.HandleCommand(context.Background(), 42, "solve", "tiny"))
	assert.Equal(t, "Please parse only one argument!", s.HandleCommand(context.Background(), 42, "solve", "a b"))
	assert.Equal(t, "Please parse only one argument!", s.HandleCommand(context.Background(), 42, "solve", ""))
}

func TestHandleCommand_Dashboard(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand(context.Background(), 42, "dashboard", "")
	assert.Contains(t, reply, "$65,000.00")
	assert.Contains(t, reply, "40 (-20.00%)")
	assert.Contains(t, reply, "Fear 🤔")

	s.Dashboard = func(context.Context) (*model.Dashboard, error) { return nil, errors.New("boom") }
	assert.Contains(t, s.HandleCommand(context.Background(), 42, "dashboard", ""), "boom")

	s.Dashboard = nil
	assert.Contains(t, s.HandleCommand(context.Background(), 42, "dashboard", ""), "not configured")
}

func TestHandleCommand_Summary(t *testing.T) {
	s, n := newTestScheduler(t)
	assert.Empty(t, s.HandleCommand(context.Background(), 77, "summary", "okex"))
	texts := n.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, int64(77), n.sent[0].chatID)
	assert.Contains(t, texts[1], "[OKX]")

	assert.Contains(t, s.HandleCommand(context.Background(), 77, "summary", ""), "binance|bitkub|okx")
	assert.Contains(t, s.HandleCommand(context.Background(), 77, "summary", "ftx"), "summary failed")
}

func TestHandleCommand_Help(t *testing.T) {
	s, _ := newTestScheduler(t)
	for _, cmd := range []string{"start", "help", "whatever"} {
		assert.Contains(t, s.HandleCommand(context.Background(), 1, cmd, ""), "/solve COIN")
	}
}
