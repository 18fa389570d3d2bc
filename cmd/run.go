// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/lisp"
)

var (
	runExpression bool
	runPrint      bool
	runTrace      string
	runProfile    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line or files.

Each file (or expression with -e) is evaluated in the environment produced by
the previous one, so later sources see the bindings of earlier ones.  A
directory argument ending in "/..." expands to every .lisp file beneath it.

Tracing:
  --trace otel          Log an OpenTelemetry span for each function call
  --trace opencensus    Log an OpenCensus span for each function call
  --trace pprof         Write a CPU profile labeled by function to --profile
  --trace callgrind     Write a callgrind profile to --profile

Examples:
  slisp run prog.lisp
  slisp run -p -e '(fact 5)'
  slisp run --trace callgrind --profile out.callgrind prog.lisp`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptions{
			expression: runExpression,
			print:      runPrint,
			trace:      runTrace,
			profile:    runProfile,
		}
		if code := runMain(viper.GetViper(), args, opts, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

type runOptions struct {
	expression bool
	print      bool
	trace      string
	profile    string
}

// source is a program given on the command line.
type source struct {
	name string
	text string
	// inline is true when text was given as an expression rather than read
	// from the file name.
	inline bool
}

func readSources(args []string, expression bool) ([]source, error) {
	srcs := make([]source, 0, len(args))
	if expression {
		for i := range args {
			srcs = append(srcs, source{
				name:   fmt.Sprintf("expr%d", i+1),
				text:   args[i],
				inline: true,
			})
		}
		return srcs, nil
	}
	paths, err := expandArgs(args, nil)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, source{name: path, text: string(b)})
	}
	return srcs, nil
}

// runMain evaluates the sources named by args and returns the process exit
// status.
func runMain(v *viper.Viper, args []string, opts runOptions, stdout, stderr io.Writer) int {
	srcs, err := readSources(args, opts.expression)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	rt := lisp.StandardRuntime()
	env, err := newEnv(v, rt, stderr)
	if err != nil {
		renderSourceError(v, stderr, err, nil)
		return 1
	}
	stop, err := startTrace(rt, opts.trace, opts.profile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	err = evalSources(env, srcs, opts.print, stdout)
	if stopErr := stop(); stopErr != nil {
		fmt.Fprintf(stderr, "trace: %v\n", stopErr)
	}
	if err != nil {
		renderSourceError(v, stderr, err, srcs)
		return 1
	}
	return 0
}

// evalSources evaluates srcs in order.  When print is true the value of each
// source is written to w.
func evalSources(env *lisp.Env, srcs []source, print bool, w io.Writer) error {
	for _, src := range srcs {
		next, v, err := env.LoadString(src.name, src.text)
		if err != nil {
			return err
		}
		env = next
		if print {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().StringVar(&runTrace, "trace", "",
		`Trace function calls: "otel", "opencensus", "pprof", or "callgrind".`)
	runCmd.Flags().StringVar(&runProfile, "profile", "",
		"Output file for pprof and callgrind traces.")
}
