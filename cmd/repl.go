// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive slisp REPL",
	Long: `Start an interactive read-eval-print loop for slisp.

The standard prelude is loaded automatically.  Each expression is evaluated
in the environment left by the previous one, so let bindings persist for the
rest of the session.  An expression left open at the end of a line continues
on the next line.  Line editing, completion of bound names, and command
history are supported via readline.  Use Ctrl-D to exit; Ctrl-C discards the
current input.

History is kept in ~/.slisp_history unless the history-file setting names
another file.

Example REPL session:
  slisp> (+ 1 2)
  3
  slisp> (let (square x) (* x x))
  nil
  slisp> (square 5)
  25
  slisp> ((= (square 2) 4) "four" "not four")
  "four"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v := viper.GetViper()
		opts, err := replOptions(v)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...); err != nil {
			renderSourceError(v, os.Stderr, err, nil)
			os.Exit(1)
		}
	},
}

// replOptions translates the configuration in v into REPL options.
func replOptions(v *viper.Viper) ([]repl.Option, error) {
	config, err := runtimeConfig(v)
	if err != nil {
		return nil, err
	}
	mode, err := colorMode(v)
	if err != nil {
		return nil, err
	}
	opts := []repl.Option{
		repl.WithEnvConfig(config...),
		repl.WithColor(mode),
	}
	if v.IsSet(keyHistoryFile) {
		opts = append(opts, repl.WithHistoryFile(v.GetString(keyHistoryFile)))
	}
	return opts, nil
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().String(keyHistoryFile, "", "File used to store line history (empty disables history).")
	if err := viper.BindPFlag(keyHistoryFile, replCmd.Flags().Lookup(keyHistoryFile)); err != nil {
		panic(err)
	}
}
