package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/compiler"
	"github.com/cabewaldrop/minisql/internal/render"
	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

const banner = `
            _       _           _
  _ __ ___ (_)_ __ (_)___  __ _| |
 | '_ ' _ \| | '_ \| / __|/ _' | |
 | | | | | | | | | | \__ \ (_| | |
 |_| |_| |_|_|_| |_|_|___/\__, |_|
                             |_|

  SQL analyzer - Version %s
  Type '.help' for usage hints or '.quit' to exit.
`

// dotCommands are special commands starting with '.'
var dotCommands = map[string]string{
	".help":   "Show this help message",
	".quit":   "Exit the program",
	".exit":   "Exit the program (alias for .quit)",
	".tables": "List all tables created in this session",
	".schema": "Show schema for all tables or a specific table",
	".reset":  "Forget every statement entered so far",
	".clear":  "Clear the screen",
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Analyze statements interactively",
	Long: `
Start an interactive session. Statements end with ';'. Each accepted
statement stays part of the session, so later statements are checked
against the tables created earlier. Statements with errors are reported
and discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, banner, version)
		newSession(out, newPrinter(out)).run(cmd.InOrStdin())
		return nil
	},
}

// session holds the statements accepted so far and the schema they build.
type session struct {
	out     io.Writer
	printer *render.Printer

	accepted []parser.Statement
	schema   *catalog.Catalog
	quit     bool
}

func newSession(out io.Writer, p *render.Printer) *session {
	return &session{out: out, printer: p, schema: catalog.NewCatalog()}
}

// run implements the Read-Eval-Print Loop.
func (s *session) run(in io.Reader) {
	reader := bufio.NewReader(in)
	var inputBuffer strings.Builder

	for !s.quit {
		// Print prompt
		if inputBuffer.Len() == 0 {
			fmt.Fprint(s.out, "minisql> ")
		} else {
			fmt.Fprint(s.out, "    ...> ")
		}

		// Read line
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			return
		}
		atEOF := errors.Is(err, io.EOF)

		line = strings.TrimRight(line, "\n\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			// Handle empty line
		case inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, "."):
			s.handleDotCommand(trimmed)
		default:
			// Accumulate input until the statement is complete
			inputBuffer.WriteString(line)
			inputBuffer.WriteString("\n")
			if strings.HasSuffix(trimmed, ";") {
				s.eval(inputBuffer.String())
				inputBuffer.Reset()
			}
		}

		if atEOF {
			if inputBuffer.Len() > 0 {
				s.eval(inputBuffer.String())
			}
			fmt.Fprintln(s.out, "\nGoodbye!")
			return
		}
	}
}

// eval analyzes input against the session and keeps it if it is valid.
func (s *session) eval(input string) {
	res := compiler.Compile(input, compiler.WithLogger(logger), compiler.WithPrelude(s.accepted...))
	if !res.OK() {
		s.printer.Result(res, false)
		return
	}

	s.accepted = append(s.accepted, res.AST.Statements...)
	s.schema = res.Schema
	s.printer.Tree(res.AST)
}

// handleDotCommand processes special dot commands.
func (s *session) handleDotCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ".help":
		fmt.Fprintln(s.out, "\nAvailable commands:")
		names := make([]string, 0, len(dotCommands))
		for name := range dotCommands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(s.out, "  %-12s %s\n", name, dotCommands[name])
		}
		fmt.Fprintln(s.out, "\nSQL Commands:")
		fmt.Fprintln(s.out, "  CREATE TABLE name (column type, ...)     types: INT, FLOAT, TEXT")
		fmt.Fprintln(s.out, "  INSERT INTO table VALUES (value, ...)")
		fmt.Fprintln(s.out, "  SELECT * | columns FROM table [WHERE condition]")
		fmt.Fprintln(s.out, "  UPDATE table SET column = value, ... [WHERE condition]")
		fmt.Fprintln(s.out, "  DELETE FROM table [WHERE condition]")
		fmt.Fprintln(s.out)

	case ".quit", ".exit":
		fmt.Fprintln(s.out, "Goodbye!")
		s.quit = true

	case ".tables":
		tables := s.schema.ListTables()
		if len(tables) == 0 {
			fmt.Fprintln(s.out, "No tables found.")
		} else {
			fmt.Fprintln(s.out, "Tables:")
			for _, name := range tables {
				fmt.Fprintf(s.out, "  %s\n", name)
			}
		}

	case ".schema":
		if len(parts) > 1 {
			// Show schema for specific table
			info, ok := s.schema.GetTableInfo(parts[1])
			if !ok {
				fmt.Fprintf(s.out, "Table '%s' not found.\n", parts[1])
				return
			}
			s.printer.TableDDL(info)
		} else {
			// Show schema for all tables
			for _, info := range s.schema.Tables() {
				s.printer.TableDDL(info)
			}
		}

	case ".reset":
		s.accepted = nil
		s.schema = catalog.NewCatalog()
		fmt.Fprintln(s.out, "Session cleared.")

	case ".clear":
		// ANSI escape code to clear screen
		fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(s.out, "Type '.help' for available commands.")
	}
}
