package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"LevelSentinel/internal/analyzer"
	"LevelSentinel/internal/notifier"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Print significant and cross-validated levels for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		intervalFlag, _ := cmd.Flags().GetString("interval")
		confirmFlag, _ := cmd.Flags().GetStringSlice("confirm")
		asJSON, _ := cmd.Flags().GetBool("json")

		if intervalFlag == "" {
			intervalFlag = cfg.Analysis.BaseInterval
		}
		if !cmd.Flags().Changed("confirm") {
			confirmFlag = cfg.Analysis.ConfirmIntervals
		}
		base, err := parseInterval(intervalFlag)
		if err != nil {
			return err
		}
		confirm, err := parseIntervals(confirmFlag)
		if err != nil {
			return err
		}
		start, end, err := window(startFlag, endFlag, cfg.Analysis.LookbackDays)
		if err != nil {
			return err
		}

		svc, closeFn, err := newService(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		report, err := svc.Analyze(context.Background(), analyzer.Request{
			Symbol:  strings.ToUpper(args[0]),
			Base:    base,
			Confirm: confirm,
			Start:   start,
			End:     end,
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		notifier.RenderTable(os.Stdout, report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	analyzeCmd.Flags().String("end", "", "day after the last day, YYYY-MM-DD")
	analyzeCmd.Flags().String("interval", "", "base interval (default from config)")
	analyzeCmd.Flags().StringSlice("confirm", nil, "confirming intervals (default from config)")
	analyzeCmd.Flags().Bool("json", false, "print the report as JSON")
}
