package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"LevelSentinel/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "levels",
	Short:         "Detect and cross-validate support/resistance levels",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("config") {
			if v := os.Getenv("CONFIG_PATH"); v != "" {
				cfgPath = v
			}
		}

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			log.SetLevel(log.InfoLevel)
		} else {
			log.SetLevel(level)
		}
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(analyzeCmd, serveCmd, watchCmd, fetchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
