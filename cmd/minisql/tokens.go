package main

import (
	"github.com/spf13/cobra"

	"github.com/cabewaldrop/minisql/internal/compiler"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a SQL file",
	Long: `
Run the lexer only and print the token table, the identifier table and
any lexical errors. FILE may be "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		res := compiler.Tokenize(src)

		p := newPrinter(cmd.OutOrStdout())
		p.Tokens(res.Tokens)
		p.Identifiers(res.Identifiers)
		p.Errors("LEXICAL ERRORS", res.Errors())

		if !res.OK() {
			return errAnalysisFailed
		}
		return nil
	},
}
