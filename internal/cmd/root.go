package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strrl/agentsim/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agentsim",
	Short: "A simulated AI agent that answers from canned templates",
	Long: `agentsim routes free text to one of six categories by keyword (code execution,
file operation, web search, planning, data analysis, general) and answers with a
canned response after a simulated processing delay. No code is executed and no
network request is made.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		// The chat TUI owns the terminal; log nothing.
		if cmd.Name() == "chat" {
			logger = zap.NewNop()
			return nil
		}

		logger, err = newLogger(cfg.Logging, cmd.ErrOrStderr())
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

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = false

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "agentsim.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newLogger(lc config.LoggingConfig, w io.Writer) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if lc.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	encoder := zapcore.NewJSONEncoder(zcfg.EncoderConfig)
	if lc.Development {
		encoder = zapcore.NewConsoleEncoder(zcfg.EncoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zcfg.Level)
	return zap.New(core), nil
}
