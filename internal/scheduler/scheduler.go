package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/notifier"
	"CapitalSentinel/internal/options"
	"CapitalSentinel/internal/portfolio"
)

// optionsTop is how many contracts a Telegram options reply lists.
const optionsTop = 10

// Scheduler manages all cron tasks and answers chat commands.
type Scheduler struct {
	Cron          *cron.Cron
	Advisor       *advisor.Advisor
	Portfolio     *portfolio.Manager
	Notifier      notifier.Sender
	OptionTickers []string
	Criteria      options.Criteria
	Ctx           context.Context

	// runMu keeps a slow pass from overlapping the next cron tick.
	runMu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, pm *portfolio.Manager, sender notifier.Sender, tickers []string, criteria options.Criteria) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Advisor:       adv,
		Portfolio:     pm,
		Notifier:      sender,
		OptionTickers: tickers,
		Criteria:      criteria,
		Ctx:           ctx,
	}
}

// RegisterAll registers the advisory and options screening tasks.
func (s *Scheduler) RegisterAll(advisoryCron, optionsCron string) error {
	if _, err := s.Cron.AddFunc(advisoryCron, s.advisoryTask); err != nil {
		return fmt.Errorf("register advisory task: %w", err)
	}
	if len(s.OptionTickers) > 0 {
		if _, err := s.Cron.AddFunc(optionsCron, s.optionsTask); err != nil {
			return fmt.Errorf("register options task: %w", err)
		}
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

// RunAdvisoryNow executes the advisory task immediately.
func (s *Scheduler) RunAdvisoryNow() {
	s.advisoryTask()
}

func (s *Scheduler) advisoryTask() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	log.Info().Msg("running advisory task")
	rep := s.Advisor.Run(s.Ctx, s.Portfolio.GetState())
	s.trySend(notifier.FormatAdvisory(rep))
}

func (s *Scheduler) optionsTask() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	for _, t := range s.OptionTickers {
		log.Info().Str("ticker", t).Msg("running options screen")
		rep := s.Advisor.ScreenOptions(s.Ctx, t, s.Criteria)
		s.trySend(notifier.FormatOptions(rep, optionsTop))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i] // "/signals@SentinelBot"
	}
	args := fields[1:]

	switch name {
	case "/signals":
		rep := s.Advisor.Run(ctx, s.Portfolio.GetState())
		return notifier.FormatSignals(rep.Signals)
	case "/tickets":
		rep := s.Advisor.Run(ctx, s.Portfolio.GetState())
		return notifier.FormatTickets(rep)
	case "/portfolio":
		rep := s.Advisor.Run(ctx, s.Portfolio.GetState())
		return notifier.FormatPortfolio(rep)
	case "/options":
		if len(args) != 1 {
			return "Usage: /options TICKER"
		}
		rep := s.Advisor.ScreenOptions(ctx, args[0], s.Criteria)
		return notifier.FormatOptions(rep, optionsTop)
	case "/cash":
		if len(args) != 1 {
			return "Usage: /cash AMOUNT"
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(args[0], "$"), ",", ""), 64)
		if err != nil {
			return notifier.FormatError(fmt.Errorf("invalid amount %q", args[0]))
		}
		if err := s.Portfolio.SetCash(amount); err != nil {
			return notifier.FormatError(err)
		}
		return fmt.Sprintf("✅ Cash on hand set to $%.2f", amount)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /signals\n" +
	"• /tickets\n" +
	"• /portfolio\n" +
	"• /options TICKER\n" +
	"• /cash AMOUNT"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
