package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"MinerviniScan/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string        `yaml:"provider"` // yahoo | rest | mock
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		HistoryDays       int           `yaml:"history_days"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		MaxConcurrency    int           `yaml:"max_concurrency"`
		MockPattern       string        `yaml:"mock_pattern"` // breakout | uptrend | decline | drift
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist"`
	Analysis  Analysis `yaml:"analysis"`
	Risk      struct {
		AccountSize  float64 `yaml:"account_size"`
		RiskPerTrade float64 `yaml:"risk_per_trade"`
		StopLookback int     `yaml:"stop_lookback"`
	} `yaml:"risk"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	State struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"state"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Analysis mirrors the tunable thresholds of strategy.Params.
type Analysis struct {
	TrendLookback      int     `yaml:"trend_lookback"`
	NearHighBand       float64 `yaml:"near_high_band"`
	AboveLowBand       float64 `yaml:"above_low_band"`
	MinPhase1Score     int     `yaml:"min_phase1_score"`
	VCPLookback        int     `yaml:"vcp_lookback"`
	MinLegBars         int     `yaml:"min_leg_bars"`
	RangeTolerance     float64 `yaml:"range_tolerance"`
	MaxContractions    int     `yaml:"max_contractions"`
	TightnessThreshold float64 `yaml:"tightness_threshold"`
	VolumeSurge        float64 `yaml:"volume_surge"`
	VolumeAvgPeriod    int     `yaml:"volume_avg_period"`
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	p := strategy.DefaultParams()
	cfg := &Config{}
	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.MockPattern = "breakout"
	cfg.DataSource.HistoryDays = 400
	cfg.DataSource.Timeout = 30 * time.Second
	cfg.DataSource.RequestsPerSecond = 2
	cfg.DataSource.MaxConcurrency = 4
	cfg.Analysis = Analysis{
		TrendLookback:      p.TrendLookback,
		NearHighBand:       p.NearHighBand,
		AboveLowBand:       p.AboveLowBand,
		MinPhase1Score:     p.MinPhase1Score,
		VCPLookback:        p.VCPLookback,
		MinLegBars:         p.MinLegBars,
		RangeTolerance:     p.RangeTolerance,
		MaxContractions:    p.MaxContractions,
		TightnessThreshold: p.TightnessThreshold,
		VolumeSurge:        p.VolumeSurge,
		VolumeAvgPeriod:    p.VolumeAvgPeriod,
	}
	cfg.Risk.RiskPerTrade = p.RiskPerTrade
	cfg.Risk.StopLookback = p.StopLookback
	cfg.Schedule.ScanCron = "0 30 22 * * 1-5"
	cfg.Database.SQLitePath = "data/minervini.db"
	cfg.State.StateFile = "data/watchlist_state.json"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Watchlist = NormalizeSymbols(cfg.Watchlist)
	cfg.DataSource.Provider = strings.ToLower(strings.TrimSpace(cfg.DataSource.Provider))
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() error {
	str := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"DATA_PROVIDER":      &c.DataSource.Provider,
		"DATA_BASE_URL":      &c.DataSource.BaseURL,
		"DATA_API_KEY":       &c.DataSource.APIKey,
		"HTTPS_PROXY":        &c.Proxy,
		"SCAN_CRON":          &c.Schedule.ScanCron,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"STATE_FILE":         &c.State.StateFile,
		"METRICS_ADDR":       &c.Metrics.ListenAddr,
		"LOG_LEVEL":          &c.Log.Level,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("ACCOUNT_SIZE"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ACCOUNT_SIZE: %w", err)
		}
		c.Risk.AccountSize = size
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = on
	}
	return nil
}

// NormalizeSymbols upper-cases, trims and de-duplicates symbols, keeping order.
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Params converts the analysis and risk sections into engine parameters.
func (c *Config) Params() strategy.Params {
	a := c.Analysis
	return strategy.Params{
		TrendLookback:      a.TrendLookback,
		NearHighBand:       a.NearHighBand,
		AboveLowBand:       a.AboveLowBand,
		MinPhase1Score:     a.MinPhase1Score,
		VCPLookback:        a.VCPLookback,
		MinLegBars:         a.MinLegBars,
		RangeTolerance:     a.RangeTolerance,
		MaxContractions:    a.MaxContractions,
		TightnessThreshold: a.TightnessThreshold,
		VolumeSurge:        a.VolumeSurge,
		VolumeAvgPeriod:    a.VolumeAvgPeriod,
		StopLookback:       c.Risk.StopLookback,
		AccountSize:        c.Risk.AccountSize,
		RiskPerTrade:       c.Risk.RiskPerTrade,
	}
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "mock":
		switch c.DataSource.MockPattern {
		case "breakout", "uptrend", "decline", "drift":
		default:
			return fmt.Errorf("data_source.mock_pattern %q is not one of breakout, uptrend, decline, drift", c.DataSource.MockPattern)
		}
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.HistoryDays < 260 {
		return fmt.Errorf("data_source.history_days must be at least 260 to cover a 52-week range")
	}
	if c.DataSource.MaxConcurrency <= 0 {
		return fmt.Errorf("data_source.max_concurrency must be positive")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}
