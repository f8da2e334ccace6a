package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MinerviniScan/internal/config"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

// rootCmd is the base command for the scanner CLI
var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "Minervini trend template and VCP stock scanner",
	Long: `Scanner screens daily stock history against Mark Minervini's trend
template, looks for a volatility contraction base, checks for a volume
breakout and sizes the trade from the stop.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	// .env is optional
	_ = godotenv.Load()

	path := cfgPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	setupLogging(c.Log.Level, c.Log.Pretty)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	cfg = c
	log.Debug().Str("config", path).Str("provider", c.DataSource.Provider).Int("watchlist", len(c.Watchlist)).Msg("config loaded")
	return nil
}

func setupLogging(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
