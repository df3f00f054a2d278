package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"LevelSentinel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the levels HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(svc, base, confirm, cfg.Analysis.LookbackDays).Run(ctx, cfg.Server.Addr)
	},
}
