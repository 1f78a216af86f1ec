package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"CDCSentinel/internal/collector"
	"CDCSentinel/internal/model"
	"CDCSentinel/internal/notifier"
	"CDCSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sendRetries = 3

// Notifier delivers text to a chat.
type Notifier interface {
	SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error
}

// DashboardFunc collects the Bitcoin dashboard.
type DashboardFunc func(ctx context.Context) (*model.Dashboard, error)

// Scheduler manages the summary cron jobs and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Registry  *collector.Registry
	Notifier  Notifier
	Dashboard DashboardFunc
	// Chats maps an exchange name to the chat receiving its scheduled summary.
	Chats map[string]int64
	Now   func() time.Time
	Ctx   context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, reg *collector.Registry, n Notifier, dashboard DashboardFunc, chats map[string]int64) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Registry:  reg,
		Notifier:  n,
		Dashboard: dashboard,
		Chats:     chats,
		Now:       time.Now,
		Ctx:       ctx,
	}
}

// RegisterAll registers one summary job per configured exchange chat.
func (s *Scheduler) RegisterAll(summaryCron string) error {
	for _, name := range s.chatExchanges() {
		if _, err := s.Registry.Get(name); err != nil {
			return fmt.Errorf("register %s summary: %w", name, err)
		}
		exchange, chatID := name, s.Chats[name]
		if _, err := s.Cron.AddFunc(summaryCron, func() {
			if err := s.SendSummary(s.Ctx, exchange, chatID); err != nil {
				log.Error().Err(err).Str("exchange", exchange).Msg("scheduled summary failed")
			}
		}); err != nil {
			return fmt.Errorf("register %s summary: %w", name, err)
		}
		log.Info().Str("exchange", exchange).Int64("chat_id", chatID).Str("cron", summaryCron).Msg("summary job registered")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunSummaryNow sends the summary of exchange to its configured chat immediately.
func (s *Scheduler) RunSummaryNow(ctx context.Context, exchange string) error {
	f, err := s.Registry.Get(exchange)
	if err != nil {
		return err
	}
	chatID, ok := s.Chats[f.Name()]
	if !ok {
		return fmt.Errorf("no chat configured for %s", f.Name())
	}
	return s.SendSummary(ctx, f.Name(), chatID)
}

// SendSummary scans every summary quote of exchange and sends the reports to chatID,
// preceded by a timestamp.
func (s *Scheduler) SendSummary(ctx context.Context, exchange string, chatID int64) error {
	f, err := s.Registry.Get(exchange)
	if err != nil {
		return err
	}
	log.Info().Str("exchange", f.Name()).Msg("running summary")
	col := collector.NewCollector(f)

	s.send(ctx, chatID, notifier.FormatTimestamp(s.Now()))
	for _, quote := range summaryQuotes(f.Name()) {
		report, err := col.Scan(ctx, quote, true)
		if err != nil {
			return fmt.Errorf("%s summary: %w", f.Name(), err)
		}
		s.send(ctx, chatID, notifier.FormatCDCReport(report))
	}
	return nil
}

// summaryQuotes lists the pair families reported for an exchange.
func summaryQuotes(exchange string) []model.Quote {
	switch exchange {
	case "bitkub":
		return []model.Quote{model.QuoteTHB}
	case "binance":
		return []model.Quote{model.QuoteUSDT, model.QuoteBTC}
	default:
		return []model.Quote{model.QuoteUSDT}
	}
}

// HandleCommand processes a bot command and returns a reply. Commands that send their
// own messages return an empty reply.
func (s *Scheduler) HandleCommand(ctx context.Context, chatID int64, command, args string) string {
	command = strings.ToLower(strings.TrimPrefix(command, "/"))
	fields := strings.Fields(args)

	switch command {
	case "cdc":
		return s.cdc(ctx, chatID, fields, true)
	case "cdcprev", "cdcaction":
		return s.cdc(ctx, chatID, fields, false)
	case "solve":
		return s.solve(ctx, fields)
	case "dashboard":
		return s.dashboard(ctx)
	case "summary":
		if len(fields) != 1 {
			return "Please parse exchange as an argument! (" + strings.Join(s.Registry.Names(), "|") + ")"
		}
		if err := s.SendSummary(ctx, fields[0], chatID); err != nil {
			log.Error().Err(err).Str("exchange", fields[0]).Msg("summary command failed")
			return fmt.Sprintf("❌ summary failed: %v", err)
		}
		return ""
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) cdc(ctx context.Context, chatID int64, fields []string, current bool) string {
	quote := model.QuoteUSDT
	if len(fields) > 0 {
		quote = model.Quote(strings.ToLower(fields[0]))
	}
	if quote != model.QuoteUSDT && quote != model.QuoteBTC {
		return fmt.Sprintf("Unrecognized argument: %s. Only usdt|btc available", fields[0])
	}

	exchanges := []string{"binance"}
	if quote == model.QuoteBTC {
		exchanges = append(exchanges, "okx")
	}

	s.send(ctx, chatID, notifier.FormatProgress(quote))
	for _, name := range exchanges {
		f, err := s.Registry.Get(name)
		if err != nil {
			log.Warn().Err(err).Msg("cdc exchange unavailable")
			continue
		}
		report, err := collector.NewCollector(f).Scan(ctx, quote, current)
		if err != nil {
			log.Error().Err(err).Str("exchange", name).Msg("cdc scan failed")
			s.send(ctx, chatID, fmt.Sprintf("❌ %s scan failed: %v", name, err))
			continue
		}
		s.send(ctx, chatID, notifier.FormatCDCReport(report))
	}
	return ""
}

func (s *Scheduler) solve(ctx context.Context, fields []string) string {
	if len(fields) != 1 {
		return "Please parse only one argument!"
	}
	symbol := strings.ToUpper(strings.TrimSpace(fields[0])) + "USDT"

	f, err := s.Registry.Get("binance")
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	res, err := collector.NewCollector(f).Solve(ctx, symbol)
	switch {
	case errors.Is(err, collector.ErrUnknownSymbol), errors.Is(err, strategy.ErrSeriesTooShort):
		log.Info().Err(err).Str("symbol", symbol).Msg("cannot solve")
		return fmt.Sprintf("Unrecognize pair name `%s` on Binance", symbol)
	case err != nil:
		log.Error().Err(err).Str("symbol", symbol).Msg("solve failed")
		return fmt.Sprintf("❌ solve failed: %v", err)
	}
	return notifier.FormatSolverResult(symbol, res)
}

func (s *Scheduler) dashboard(ctx context.Context) string {
	if s.Dashboard == nil {
		return "❌ dashboard is not configured"
	}
	d, err := s.Dashboard(ctx)
	if err != nil {
		log.Error().Err(err).Msg("dashboard failed")
		return fmt.Sprintf("❌ dashboard failed: %v", err)
	}
	return notifier.FormatDashboard(d)
}

func (s *Scheduler) chatExchanges() []string {
	names := make([]string, 0, len(s.Chats))
	for name := range s.Chats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) send(ctx context.Context, chatID int64, text string) {
	if err := s.Notifier.SendWithRetry(ctx, chatID, text, sendRetries); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send notification")
	}
}
