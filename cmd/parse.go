// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/parser"
)

// ParseCommand creates the "parse" cobra command.
func ParseCommand() *cobra.Command {
	var (
		expression bool
		locations  bool
		excludes   []string
	)

	cmd := &cobra.Command{
		Use:   "parse [flags] FILE...",
		Short: "Parse lisp code and print each expression",
		Long: `Parse lisp source and print each top-level expression in canonical form.

Syntax errors are reported with a source snippet.  All sources are parsed
even when an earlier one fails; the exit status is 1 if any failed.  A
directory argument ending in "/..." expands to every .lisp file beneath it.

The --reader setting selects the parser implementation, which makes this
command useful for comparing the two.

Examples:
  slisp parse prog.lisp
  slisp parse --locations -e "(let (f x) (* x 2))"
  slisp parse --reader parsec --exclude build ./...`,
		Args: cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if expression {
				srcs, _ := readSources(args, true)
				os.Exit(parseSources(viper.GetViper(), srcs, locations, os.Stdout, os.Stderr))
			}
			paths, err := expandArgs(args, excludes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			srcs, err := readSources(paths, false)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			os.Exit(parseSources(viper.GetViper(), srcs, locations, os.Stdout, os.Stderr))
		},
	}

	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	cmd.Flags().BoolVarP(&locations, "locations", "l", false,
		"Prefix each expression with its source location")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude when expanding ./... (may be repeated).")
	return cmd
}

// parseSources writes the expressions parsed from srcs to stdout and returns
// the exit status.
func parseSources(v *viper.Viper, srcs []source, locations bool, stdout, stderr io.Writer) int {
	code := 0
	for _, src := range srcs {
		reader, err := parser.ReaderByName(v.GetString(keyReader))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		exprs, err := reader.Read(src.name, strings.NewReader(src.text))
		if err != nil {
			renderSourceError(v, stderr, err, []source{src})
			code = 1
			continue
		}
		for _, expr := range exprs {
			if locations {
				fmt.Fprintf(stdout, "%s\t%s\n", expr.Loc(), expr)
			} else {
				fmt.Fprintln(stdout, expr)
			}
		}
	}
	return code
}

func init() {
	rootCmd.AddCommand(ParseCommand())
}
