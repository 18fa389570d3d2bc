// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib/libhelp"
)

// DocCommand creates the "doc" cobra command with optional embedder
// configuration.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		sourceFile string
		missing    bool
	)

	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for builtins and bound names",
		Long: `Show documentation for slisp builtins and the names bound by the prelude.

Without arguments every builtin function is listed with its documentation.
Given a name, the value bound to that name is described.  Functions are
shown with their parameter list.  Use -f to load a source file first (useful
for describing your own definitions).

Examples:
  slisp doc                        List every builtin
  slisp doc =                      Show docs for the = builtin
  slisp doc fact                   Show the signature of a prelude function
  slisp doc -f mylib.lisp my-fn    Load a file, then describe my-fn
  slisp doc --missing              List builtins without documentation`,
		Args: cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			env := cfg.env
			if env == nil && len(args) > 0 {
				var err error
				env, err = newEnv(viper.GetViper(), nil, os.Stderr)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
			}
			out := bufio.NewWriter(os.Stdout)
			code := docMain(viper.GetViper(), env, args, sourceFile, missing, out, os.Stderr)
			_ = out.Flush()
			os.Exit(code)
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a lisp source file before querying documentation.")
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List builtins which have no documentation and exit non-zero if there are any.")
	return cmd
}

// docMain writes the requested documentation to w and returns the exit
// status.
func docMain(v *viper.Viper, env *lisp.Env, args []string, sourceFile string, missing bool, w, stderr io.Writer) int {
	if missing {
		undocumented := libhelp.CheckMissing()
		for _, m := range undocumented {
			fmt.Fprintf(w, "%s %s\n", m.Kind, m.Name)
		}
		if len(undocumented) > 0 {
			return 1
		}
		return 0
	}
	if len(args) == 0 {
		if err := libhelp.RenderBuiltins(w); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	if sourceFile != "" {
		next, _, err := env.LoadFile(sourceFile)
		if err != nil {
			renderSourceError(v, stderr, err, nil)
			return 1
		}
		env = next
	}
	if err := libhelp.RenderVar(w, env, args[0]); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
