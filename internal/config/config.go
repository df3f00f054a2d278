package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		CSVDir   string `yaml:"csv_dir"`
		Proxy    string `yaml:"proxy"`
	} `yaml:"data_source"`
	Analysis struct {
		Prominence       float64  `yaml:"prominence"`
		ClusterFactor    float64  `yaml:"cluster_factor"`
		Tolerance        float64  `yaml:"tolerance"`
		TolerancePct     float64  `yaml:"tolerance_pct"`
		ShortWindow      int      `yaml:"short_window"`
		LongWindow       int      `yaml:"long_window"`
		BaseInterval     string   `yaml:"base_interval"`
		ConfirmIntervals []string `yaml:"confirm_intervals"`
		LookbackDays     int      `yaml:"lookback_days"`
	} `yaml:"analysis"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Watch struct {
		Symbols     []string `yaml:"symbols"`
		Cron        string   `yaml:"cron"`
		StateFile   string   `yaml:"state_file"`
		OnlyChanges bool     `yaml:"only_changes"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Zero is meaningful for these two, so their defaults are seeded before
	// decoding instead of filled in afterwards.
	cfg.Analysis.Prominence = 2
	cfg.Analysis.ClusterFactor = 0.5

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is fine; variables already set in the environment win.
	_ = godotenv.Load()

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		cfg.DataSource.CSVDir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("ANALYSIS_PROMINENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.Prominence = f
		}
	}
	if v := os.Getenv("ANALYSIS_CLUSTER_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.ClusterFactor = f
		}
	}
	if v := os.Getenv("ANALYSIS_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.Tolerance = f
		}
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WATCH_SYMBOLS"); v != "" {
		cfg.Watch.Symbols = splitList(v)
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("WATCH_ONLY_CHANGES"); v != "" {
		cfg.Watch.OnlyChanges = v == "true"
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.CSVDir == "" {
		cfg.DataSource.CSVDir = "data/bars"
	}
	if cfg.Analysis.Tolerance == 0 {
		cfg.Analysis.Tolerance = 0.5
	}
	if cfg.Analysis.ShortWindow == 0 {
		cfg.Analysis.ShortWindow = 50
	}
	if cfg.Analysis.LongWindow == 0 {
		cfg.Analysis.LongWindow = 200
	}
	if cfg.Analysis.BaseInterval == "" {
		cfg.Analysis.BaseInterval = "1m"
	}
	if len(cfg.Analysis.ConfirmIntervals) == 0 {
		cfg.Analysis.ConfirmIntervals = []string{"5m", "15m", "1h"}
	}
	if cfg.Analysis.LookbackDays == 0 {
		cfg.Analysis.LookbackDays = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 5 16 * * 1-5"
	}
	if cfg.Watch.StateFile == "" {
		cfg.Watch.StateFile = "data/watch_state.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	for i, s := range cfg.Watch.Symbols {
		cfg.Watch.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "csv", "mock":
	case "polygon":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for polygon")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Analysis.Prominence < 0 {
		return fmt.Errorf("analysis.prominence must not be negative")
	}
	if c.Analysis.ClusterFactor < 0 {
		return fmt.Errorf("analysis.cluster_factor must not be negative")
	}
	if c.Analysis.Tolerance <= 0 && c.Analysis.TolerancePct <= 0 {
		return fmt.Errorf("analysis.tolerance must be positive")
	}
	if c.Analysis.ShortWindow >= c.Analysis.LongWindow {
		return fmt.Errorf("analysis.short_window must be below analysis.long_window")
	}
	if c.Analysis.LookbackDays < 0 {
		return fmt.Errorf("analysis.lookback_days must not be negative")
	}
	return nil
}

// ValidateWatch checks the extra settings needed by the scheduled watcher.
func (c *Config) ValidateWatch() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watch.Symbols) == 0 {
		return fmt.Errorf("watch.symbols must not be empty")
	}
	return nil
}
