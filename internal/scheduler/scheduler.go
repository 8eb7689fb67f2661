package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"TickerLens/internal/collector"
	"TickerLens/internal/model"
	"TickerLens/internal/notifier"
	"TickerLens/internal/strategy"
)

// Sender delivers a rendered report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic report and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Default   model.Request
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, def model.Request) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Default:   def,
		Ctx:       ctx,
	}
}

// Register adds the report task on the given cron expression (with seconds field).
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunReportNow executes the report task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	log.Printf("[INFO] running report task for %s", s.Default)
	s.trySend(s.Report(s.Ctx, s.Default))
}

// Report analyzes req and renders the message for it.
func (s *Scheduler) Report(ctx context.Context, req model.Request) string {
	res, err := s.Collector.Analyze(ctx, req)
	if err != nil {
		log.Printf("[ERROR] report %s: %v", req, err)
		return fmt.Sprintf("❌ data collection failed for %s: %v", req.Symbol, err)
	}
	var outlook *model.Outlook
	if res.OK() {
		outlook = strategy.Evaluate(res.Series)
	}
	return notifier.FormatReport(req, res, outlook)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Default.Symbol)
	}
	// Group chats append the bot name: /chart@TickerLensBot
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/chart":
		req, err := s.parseChart(fields[1:])
		if err != nil {
			return fmt.Sprintf("❌ %v\n\n%s", err, notifier.FormatHelp(s.Default.Symbol))
		}
		return s.Report(ctx, req)
	default:
		return notifier.FormatHelp(s.Default.Symbol)
	}
}

func (s *Scheduler) parseChart(args []string) (model.Request, error) {
	req := s.Default
	if len(args) > 3 {
		return req, fmt.Errorf("too many arguments")
	}
	if len(args) > 0 {
		req.Symbol = strings.ToUpper(args[0])
	}
	if len(args) > 1 {
		p, err := model.ParsePeriod(strings.ToLower(args[1]))
		if err != nil {
			return req, err
		}
		req.Period = p
	}
	if len(args) > 2 {
		i, err := model.ParseInterval(strings.ToLower(args[2]))
		if err != nil {
			return req, err
		}
		req.Interval = i
	}
	return req, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Println("[WARN] no notifier configured, report dropped")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
