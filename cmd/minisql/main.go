// Package main implements the minisql command line interface.
//
// EDUCATIONAL NOTES:
// ------------------
// This is the entry point for the minisql CLI. It provides:
// 1. `check`: run all analysis phases over a file and report the results
// 2. `tokens`: run the lexer only and print the token table
// 3. `repl`: an interactive session where each statement is analyzed
//    against the tables created earlier in the session
// 4. `serve`: the HTTP API
//
// Commands are built with cobra; configuration comes from viper (see
// internal/config) and is loaded once before any command runs.

package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Analysis failures have already been reported in full.
		if !errors.Is(err, errAnalysisFailed) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
