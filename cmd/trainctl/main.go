package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	envName string
	verbose bool

	cfg    *config.ToolsConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainctl",
	Short: "Offline tools for the reference-sheet adapter",
	Long: `trainctl prepares fine-tuning data, launches adapter training through
an external trainer, and runs evaluation generations against the local model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadToolsConfig(envName)
		if err != nil {
			return err
		}

		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(level)
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "local", "Environment whose .env file to load (local, prod, or custom)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(prepareCmd, trainCmd, evaluateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
