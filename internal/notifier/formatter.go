package notifier

import (
	"fmt"
	"strings"
	"time"

	"CDCSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatCDCReport formats the actionable buckets of one exchange scan.
func FormatCDCReport(r *model.ScanReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(r.Exchange)))
	b.WriteString("CDC Action Zone V3 \n")
	if !r.Current {
		b.WriteString("(confirmed on the previous bar)\n")
	}
	b.WriteString("\n")

	b.WriteString("(Buy Next Bar) - buy now! 🟢\n")
	b.WriteString(strings.Join(r.Buy, " ") + "\n\n")
	b.WriteString("(Sell Next Bar) - sell now! 🔴\n")
	b.WriteString(strings.Join(r.Sell, " ") + "\n\n")
	b.WriteString("(Buy More Next Bar) - buy the dip / take long position now! 🔼\n")
	b.WriteString(strings.Join(r.BuyMore, " ") + "\n\n")
	b.WriteString("(Sell More Next Bar) -  short now! 🔽\n")
	b.WriteString(strings.Join(r.SellMore, " ") + "\n\n")

	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf("scanned %d, skipped %d\n", r.Scanned, r.Skipped))
	}
	return b.String()
}

// FormatSolverResult formats the crossover price of symbol.
func FormatSolverResult(symbol string, res *model.SolverResult) string {
	return fmt.Sprintf("[%s]\n%s", symbol, res.Explanation)
}

// FearGreedLabel names a fear & greed index value.
func FearGreedLabel(v float64) string {
	switch {
	case v > 65:
		return "Extreme Greed 🤑"
	case v > 55:
		return "Greed 🥴"
	case v > 45:
		return "Neutral 🥱"
	case v > 35:
		return "Fear 🤔"
	default:
		return "Extreme Fear 😱"
	}
}

// FormatDashboard formats the Bitcoin dashboard.
func FormatDashboard(d *model.Dashboard) string {
	var b strings.Builder
	b.WriteString("(₿) Bitcoin Dashboard\n\n")
	b.WriteString("Bitcoin Price\n")
	b.WriteString(fmt.Sprintf("    $%s\n\n", humanize.FormatFloat("#,###.##", d.BTCPrice)))
	b.WriteString("💪🏻 Bitcoin Dominance:\n")
	b.WriteString(fmt.Sprintf("    %.2f%%\n\n", d.BTCDominance))
	b.WriteString("Fear and Greed Index\n")
	b.WriteString(fmt.Sprintf("    %.0f (%s%%)\n", d.FearGreed, formatGain(d.FearGreed, d.FearGreedPrevious)))
	b.WriteString(fmt.Sprintf("    %s\n", FearGreedLabel(d.FearGreed)))
	return b.String()
}

// formatGain renders the percent change from prev to curr, "+" prefixed when positive.
func formatGain(curr, prev float64) string {
	if prev == 0 {
		return "0.00"
	}
	gain := (curr - prev) / prev * 100
	if gain > 0 {
		return fmt.Sprintf("+%.2f", gain)
	}
	return fmt.Sprintf("%.2f", gain)
}

// FormatTimestamp is the header sent before every scheduled summary.
func FormatTimestamp(t time.Time) string {
	return "🕒 (UTC) " + t.UTC().Format("02-01-2006 15:04:05")
}

// FormatProgress tells the chat a scan has started.
func FormatProgress(quote model.Quote) string {
	return fmt.Sprintf("Computing XXX%s pairs. This could take a few minutes 🙇‍♂️ ...", strings.ToUpper(string(quote)))
}

// HelpText lists the available bot commands.
func HelpText() string {
	return "Available commands:\n" +
		"• /cdc [usdt|btc] - CDC Action Zone on the current bar\n" +
		"• /cdcprev [usdt|btc] - CDC Action Zone confirmed on the previous bar\n" +
		"• /solve COIN - close price that flips the EMA trend of COINUSDT\n" +
		"• /dashboard - Bitcoin price, dominance and fear & greed\n" +
		"• /summary EXCHANGE - scheduled summary of binance, okx, kucoin or bitkub"
}
