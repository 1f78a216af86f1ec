package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterUSDT(t *testing.T) {
	in := []string{
		"BTCUSDT", "ETHUSDT", "USDTTRY", "BTCUPUSDT", "ETHDOWNUSDT",
		"BUSDUSDT", "DAIUSDT", "JUPUSDT", "ETH-USDT", "ETH3L-USDT", "ETHBTC",
	}
	assert.Equal(t, []string{"BTCUSDT", "ETH-USDT", "ETHUSDT", "JUPUSDT"}, FilterUSDT(in))
}

func TestFilterBTC(t *testing.T) {
	in := []string{"ETHBTC", "BTCUSDT", "WBTCBTC", "ADAUPBTC", "XRP-BTC", "BTCDAI", "SOLBTC"}
	assert.Equal(t, []string{"ETHBTC", "SOLBTC", "XRP-BTC"}, FilterBTC(in))
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "BTCUSDT", NormalizeTicker("BTC-USDT"))
	assert.Equal(t, "BTCUSDT", NormalizeTicker("BTC/USDT"))
	assert.Equal(t, "BTCTHB", NormalizeTicker("BTC_THB"))
}
