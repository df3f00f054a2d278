package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"LevelSentinel/internal/notifier"
	"LevelSentinel/internal/scheduler"
	"LevelSentinel/internal/watchstate"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Send watchlist level reports to Telegram on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateWatch(); err != nil {
			return err
		}
		base, err := parseInterval(cfg.Analysis.BaseInterval)
		if err != nil {
			return err
		}
		confirm, err := parseIntervals(cfg.Analysis.ConfirmIntervals)
		if err != nil {
			return err
		}

		svc, closeFn, err := newService(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)

		sched := scheduler.NewScheduler(ctx, svc, tn, cfg.Watch.Symbols, base, confirm, cfg.Analysis.LookbackDays)
		tracker, err := watchstate.NewTracker(cfg.Watch.StateFile)
		if err != nil {
			log.WithError(err).Warn("watch state unavailable, reporting every run")
		} else {
			sched.Tracker = tracker
			sched.OnlyChanges = cfg.Watch.OnlyChanges
		}
		if err := sched.Register(cfg.Watch.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info("RUN_ON_START enabled, running watch task now")
			go sched.RunNow()
		}

		log.WithField("symbols", cfg.Watch.Symbols).Info("watching, press Ctrl+C to stop")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutdown signal received, stopping")
		cancel()
		return nil
	},
}
