// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slisp",
	Short: "slisp is a small s-expression interpreter",
	Long: `slisp is a minimal s-expression language implemented in Go.  Programs are
sequences of expressions built from integers, floats, strings, symbols, let
bindings, and lambdas.

Getting started:
  slisp run file.lisp          Run a source file
  slisp run -e '(+ 1 2)' -p    Evaluate an expression and print the result
  slisp repl                   Start an interactive REPL
  slisp parse file.lisp        Print the parsed form of each expression
  slisp doc =                  Show documentation for a builtin
  slisp lsp                    Start the language server

Language overview:
  (let x 5)                binds x for the expressions that follow
  (let (square x) (* x x)) binds a function which may call itself
  (lambda (x) (+ x 1))     creates a closure
  (= a b)                  returns true or false, which choose a branch:
                           ((= n 0) "zero" "nonzero")

Configuration is read from $HOME/.slisp.yaml (or --config) and from
SLISP_* environment variables, e.g. SLISP_STRICT_LOOKUP=true.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slisp.yaml)")
	flags.String(keyColor, "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String(keyPrelude, "", "Load the prelude from a file instead of the built-in prelude.")
	flags.String(keyQuotedLists, "legacy", `Quoted list semantics: "legacy" or "construct".`)
	flags.Bool(keyStrictLookup, false, "Make references to unbound symbols an error.")
	flags.Int(keyMaxCallDepth, 0, "Maximum call stack depth (0 uses the default).")
	flags.String(keyReader, "", `Token source used by every command, including repl: "rd" (default) or "parsec".`)
	for _, key := range []string{keyColor, keyPrelude, keyQuotedLists, keyStrictLookup, keyMaxCallDepth, keyReader} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".slisp" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".slisp")
		}
	}

	viper.SetEnvPrefix("slisp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
