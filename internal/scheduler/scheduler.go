package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/analyzer"
	"LevelSentinel/internal/model"
	"LevelSentinel/internal/notifier"
	"LevelSentinel/internal/watchstate"
)

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist analysis on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Service  *analyzer.Service
	Notifier Sender
	Symbols  []string
	Base     model.Interval
	Confirm  []model.Interval
	// LookbackDays sizes the analysis window ending today.
	LookbackDays int
	Now          func() time.Time
	Ctx          context.Context
	// Tracker, when set, remembers reported levels. With OnlyChanges the
	// watch task skips symbols whose validated levels did not move.
	Tracker     *watchstate.Tracker
	OnlyChanges bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *analyzer.Service, sender Sender, symbols []string, base model.Interval, confirm []model.Interval, lookbackDays int) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Service:      svc,
		Notifier:     sender,
		Symbols:      symbols,
		Base:         base,
		Confirm:      confirm,
		LookbackDays: lookbackDays,
		Now:          time.Now,
		Ctx:          ctx,
	}
}

// Register schedules the watchlist task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes the watchlist task immediately.
func (s *Scheduler) RunNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	log.WithField("symbols", len(s.Symbols)).Info("running watch task")
	for _, symbol := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		report, err := s.analyze(s.Ctx, symbol)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).Error("watch analysis failed")
			s.trySend(notifier.FormatError(symbol, err))
			continue
		}
		if s.Tracker != nil {
			changed, err := s.Tracker.Update(report)
			if err != nil {
				log.WithError(err).Warn("update watch state")
			}
			if s.OnlyChanges && !changed {
				log.WithField("symbol", symbol).Debug("levels unchanged, skipping")
				continue
			}
		}
		s.trySend(notifier.FormatLevelReport(report))
	}
}

func (s *Scheduler) analyze(ctx context.Context, symbol string) (*model.LevelReport, error) {
	start, end := analyzer.LookbackWindow(s.Now(), s.LookbackDays)
	return s.Service.Analyze(ctx, analyzer.Request{
		Symbol:  symbol,
		Base:    s.Base,
		Confirm: s.Confirm,
		Start:   start,
		End:     end,
	})
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch strings.ToLower(fields[0]) {
	case "/levels":
		if len(fields) < 2 {
			return "usage: /levels SYMBOL"
		}
		symbol := strings.ToUpper(fields[1])
		report, err := s.analyze(ctx, symbol)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).Warn("command analysis failed")
			return notifier.FormatError(symbol, err)
		}
		return notifier.FormatLevelReport(report)
	case "/watch":
		s.watchTask()
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.WithError(err).Error("send notification")
	}
}
