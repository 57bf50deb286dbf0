package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"lasercalc/internal/configuration"
)

var (
	configPath string
	appConfig  *configuration.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "lasercalc",
	Short: "Laser cutting scoring calculators",
	Long: `lasercalc evaluates laser cutting scenarios with the deterministic
scoring pipeline behind the calculator catalog:

  evaluate — rate an operation against its machine-class benchmarks
  risk     — estimate warping risk for a cutting job
  compare  — rank equipment options under a priority mode

Input files are YAML records; results are printed as JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			appConfig = configuration.Default()
		} else {
			config, err := configuration.LoadConfig(configPath)
			if err != nil {
				return err
			}
			appConfig = config
		}
		prepareLogger(appConfig.Logger)
		return nil
	},
}

// prepareLogger sets up the global slog logger: JSON output at the
// configured level, written to stderr and, when a file is configured, to a
// rotating log file as well. Stdout stays reserved for results.
func prepareLogger(cfg configuration.LoggerConfig) {
	var logLevel slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file")
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
