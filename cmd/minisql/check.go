package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/compiler"
	"github.com/cabewaldrop/minisql/internal/config"
)

var (
	checkFormat  string
	checkVerbose bool
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Analyze a SQL file",
	Long: `
Run the lexical, syntax and semantic phases over FILE ("-" reads stdin).

With the default text format the report contains the errors of the failing
phase, or the final symbol table and the annotated parse tree. The json,
yaml and toml formats print the symbol table only.

Examples:
  minisql check schema.sql
  minisql check -v schema.sql
  minisql check --format yaml schema.sql`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format = checkFormat
		}
		if !config.IsValidFormat(format) {
			return fmt.Errorf("unsupported format %q", format)
		}

		res := compiler.Compile(src, compiler.WithLogger(logger))
		logger.Debug("check finished",
			zap.String("file", args[0]),
			zap.String("run_id", res.RunID),
			zap.Stringer("phase", res.Phase))

		return writeCheckResult(cmd.OutOrStdout(), res, format, checkVerbose)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Output format: text, json, yaml or toml")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Also print the token and identifier tables")
}

// writeCheckResult prints res in format and returns errAnalysisFailed
// when any phase reported errors.
func writeCheckResult(w io.Writer, res *compiler.Result, format string, verbose bool) error {
	p := newPrinter(w)

	if format == "text" {
		p.Result(res, verbose)
	} else if res.OK() {
		if err := res.Schema.Export(w, catalog.Format(format)); err != nil {
			return err
		}
	} else {
		p.Result(res, false)
	}

	if !res.OK() {
		return errAnalysisFailed
	}
	return nil
}
