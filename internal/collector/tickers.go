package collector

import (
	"sort"
	"strings"
)

// Leveraged-token suffixes and stablecoins that never get a CDC signal.
var (
	leveragedSuffixes = []string{"UP", "DOWN", "BULL", "BEAR", "3L", "3S"}
	excludedAssets    = []string{"DAI"}
)

// NormalizeTicker strips pair separators: "BTC-USDT" and "BTC/USDT" become "BTCUSDT".
func NormalizeTicker(symbol string) string {
	return strings.NewReplacer("-", "", "/", "", "_", "").Replace(symbol)
}

// baseAsset returns the symbol with its quote currency removed, quote last or first.
func baseAsset(symbol, quote string) string {
	s := NormalizeTicker(strings.ToUpper(symbol))
	if strings.HasSuffix(s, quote) {
		return strings.TrimSuffix(s, quote)
	}
	return strings.TrimPrefix(s, quote)
}

func isLeveraged(base string) bool {
	for _, suffix := range leveragedSuffixes {
		// JUP or SUPER are real assets, BTCUP is not.
		if strings.HasSuffix(base, suffix) && len(base)-len(suffix) >= 2 {
			return true
		}
	}
	return false
}

func isExcluded(symbol string) bool {
	for _, asset := range excludedAssets {
		if strings.Contains(symbol, asset) {
			return true
		}
	}
	return false
}

// FilterUSDT keeps spot pairs quoted in USDT, dropping leveraged tokens and stable-on-stable pairs.
func FilterUSDT(symbols []string) []string {
	return filterPairs(symbols, func(s string) bool {
		if strings.HasPrefix(s, "USDT") || !strings.Contains(s, "USDT") {
			return false
		}
		return strings.Count(s, "USD") == 1
	}, "USDT")
}

// FilterBTC keeps pairs quoted in BTC that do not involve a USD asset.
func FilterBTC(symbols []string) []string {
	return filterPairs(symbols, func(s string) bool {
		if strings.HasPrefix(s, "BTC") || !strings.Contains(s, "BTC") || strings.Contains(s, "USD") {
			return false
		}
		return strings.Count(s, "BTC") == 1
	}, "BTC")
}

func filterPairs(symbols []string, keep func(string) bool, quote string) []string {
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		s := NormalizeTicker(strings.ToUpper(sym))
		if !keep(s) || isExcluded(s) || isLeveraged(baseAsset(s, quote)) {
			continue
		}
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
