package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dhamidi/lingo/internal/config"
	"github.com/dhamidi/lingo/internal/logging"
	"github.com/dhamidi/lingo/internal/ui/pretty"
)

const version = "0.1.0"

// errReported is returned after a diagnostic was already printed.
var errReported = errors.New("failed")

// app carries what every command needs after flags are parsed.
type app struct {
	configPath string
	logLevel   string
	color      string

	cfg    *config.Config
	logger *log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "lingo:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "lingo",
		Short:         "Grammar compiler and backtracking parser toolkit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default "+config.FileName+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.color, "color", "", "color output (auto, always, never)")

	rootCmd.AddCommand(newLexCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newGrammarCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

// setup loads the configuration and lets flags override it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.color != "" {
		cfg.Color = a.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	logging.SetDefault(a.logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug("configured", logging.FieldConfig, a.configPath, "level", cfg.LogLevel, "color", cfg.Color)
	return nil
}

func (a *app) styles(cmd *cobra.Command) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(a.cfg.Color, cmd.ErrOrStderr()))
}

// readSource reads path, or standard input for "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		buf, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return buf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}
