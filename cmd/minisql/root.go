package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cabewaldrop/minisql/internal/config"
	"github.com/cabewaldrop/minisql/internal/logging"
	"github.com/cabewaldrop/minisql/internal/render"
)

const version = "0.3.0"

// errAnalysisFailed makes the process exit with status 1 after the
// diagnostics have been printed.
var errAnalysisFailed = errors.New("analysis failed")

var (
	cfgFile  string
	noColor  bool
	logLevel string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "minisql",
	Short: "Lexer, parser and semantic analyzer for a small SQL dialect",
	Long: `
minisql analyzes programs written in a small SQL dialect in three phases:

- Lexical analysis: tokens, identifier table, lexical errors
- Syntax analysis: parse tree, syntax errors with recovery
- Semantic analysis: schema symbol table, type checking, annotated tree

Each phase runs only when the previous one reported no errors.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./minisql.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Operational log level (debug, info, warn, error)")

	rootCmd.AddCommand(checkCmd, tokensCmd, replCmd, serveCmd, versionCmd)
}

// initConfig loads .env files and the configuration, then builds the logger.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if noColor {
		loaded.Output.Color = false
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded

	l, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Name: "minisql"})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// newPrinter returns a printer for w honoring output.color.
func newPrinter(w io.Writer) *render.Printer {
	useColor := cfg == nil || cfg.Output.Color
	return render.New(w, useColor)
}

// readSource reads a whole file, or stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
