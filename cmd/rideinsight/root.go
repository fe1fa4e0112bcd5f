// README: Root command and shared bootstrap for the rideinsight CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rideinsight/internal/config"
	"rideinsight/internal/logger"
	"rideinsight/internal/service"
)

var (
	logLevel string
	csvPath  string
	noAI     bool
)

var rootCmd = &cobra.Command{
	Use:           "rideinsight",
	Short:         "Ask questions about rideshare trip data",
	Long:          "Answer natural-language questions about a rideshare trip export, with an optional AI provider and a rule-based fallback",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "Trip CSV export (overrides RIDEINSIGHT_DATA_CSV)")
	rootCmd.PersistentFlags().BoolVar(&noAI, "no-ai", false, "Answer with rules only")
}

func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if csvPath != "" {
		cfg.Data.CSVPath = csvPath
	}
	if noAI {
		cfg.AI.Enabled = false
	}
	return cfg, nil
}

func bootstrap(ctx context.Context) (*service.App, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	lg := logger.New(logLevel, "console")
	app, err := service.Bootstrap(ctx, cfg, lg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: %w", err)
	}
	return app, lg, nil
}

var (
	tagRe   = regexp.MustCompile(`</?(strong|em|b|i)>`)
	breakRe = regexp.MustCompile(`<br\s*/?>`)
)

// plain drops the inline markup replies carry for the web UI.
func plain(s string) string {
	s = breakRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}
