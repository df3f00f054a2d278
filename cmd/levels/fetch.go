package main

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"LevelSentinel/internal/collector"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch SYMBOL",
	Short: "Download bars into the CSV directory for offline analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		intervalFlags, _ := cmd.Flags().GetStringSlice("interval")
		outDir, _ := cmd.Flags().GetString("out")

		if len(intervalFlags) == 0 {
			intervalFlags = append([]string{cfg.Analysis.BaseInterval}, cfg.Analysis.ConfirmIntervals...)
		}
		if outDir == "" {
			outDir = cfg.DataSource.CSVDir
		}
		intervals, err := parseIntervals(intervalFlags)
		if err != nil {
			return err
		}
		start, end, err := window(startFlag, endFlag, cfg.Analysis.LookbackDays)
		if err != nil {
			return err
		}
		if cfg.DataSource.Provider == "csv" {
			return fmt.Errorf("fetch needs a remote provider, not csv")
		}

		fetcher, closeFn, err := newFetcher(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		symbol := strings.ToUpper(args[0])
		series, err := collector.NewCollector(fetcher).Collect(context.Background(), symbol, start, end, intervals...)
		if err != nil {
			return err
		}

		out := collector.NewCSVFetcher(outDir)
		for _, s := range series {
			path := out.Path(symbol, s.Interval)
			if err := collector.SaveCSV(path, s.Bars); err != nil {
				return err
			}
			log.WithFields(log.Fields{"interval": s.Interval, "bars": len(s.Bars)}).Infof("wrote %s", path)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	fetchCmd.Flags().String("end", "", "day after the last day, YYYY-MM-DD")
	fetchCmd.Flags().StringSlice("interval", nil, "intervals to download (default base and confirm intervals)")
	fetchCmd.Flags().String("out", "", "output directory (default data_source.csv_dir)")
}
