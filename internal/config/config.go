package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Exchanges that can receive a scheduled summary.
var Exchanges = []string{"binance", "okx", "kucoin", "bitkub"}

// chatEnv names the chat id variable of each exchange.
var chatEnv = map[string]string{
	"binance": "BINANCE_CHAT_ID",
	"okx":     "OKEX_CHAT_ID",
	"kucoin":  "KUCOIN_CHAT_ID",
	"bitkub":  "BITKUB_CHAT_ID",
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		// Chats maps an exchange name to the chat receiving its summary.
		Chats map[string]int64 `yaml:"chats"`
	} `yaml:"telegram"`
	Schedule struct {
		SummaryCron string `yaml:"summary_cron"`
	} `yaml:"schedule"`
	HTTP struct {
		RequestsPerSec int `yaml:"requests_per_sec"`
	} `yaml:"http"`
	Proxy       string `yaml:"proxy"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("load .env")
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.Telegram.Chats == nil {
		cfg.Telegram.Chats = make(map[string]int64)
	}
	normalized := make(map[string]int64, len(cfg.Telegram.Chats))
	for name, id := range cfg.Telegram.Chats {
		name = strings.ToLower(name)
		if name == "okex" {
			name = "okx"
		}
		normalized[name] = id
	}
	cfg.Telegram.Chats = normalized

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	} else if v := os.Getenv("TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	for _, name := range Exchanges {
		v := os.Getenv(chatEnv[name])
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", chatEnv[name], err)
		}
		cfg.Telegram.Chats[name] = id
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SUMMARY"); v != "" {
		cfg.Schedule.SummaryCron = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REQUESTS_PER_SEC"); v != "" {
		if rps, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RequestsPerSec = rps
		}
	}

	// Defaults
	if cfg.Schedule.SummaryCron == "" {
		// daily candles close at 00:00 UTC
		cfg.Schedule.SummaryCron = "0 5 0 * * *"
	}
	if cfg.HTTP.RequestsPerSec == 0 {
		cfg.HTTP.RequestsPerSec = 5
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	for name := range c.Telegram.Chats {
		if _, ok := chatEnv[name]; !ok {
			return fmt.Errorf("telegram.chats: unknown exchange %q", name)
		}
	}
	if c.HTTP.RequestsPerSec < 0 {
		return fmt.Errorf("http.requests_per_sec must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
