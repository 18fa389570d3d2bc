// Copyright © 2024 The ELPS authors

// Package repl implements an interactive read-eval-print loop for slisp.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/luthersystems/slisp/diagnostic"
	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser/rdparser"
)

// SourceName is the name attributed to expressions read by the REPL.
const SourceName = "repl"

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	historyFile string
	noHistory   bool
	color       diagnostic.ColorMode
	env         []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile stores line history in path.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
		c.noHistory = path == ""
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithEnvConfig applies config to the environment created by RunRepl.
func WithEnvConfig(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.env = append(c.env, cfgs...)
	}
}

// RunRepl runs a simple repl in a root environment with the standard prelude
// loaded.  An error is returned if the environment cannot be initialized.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := cfg.env
	if cfg.stderr != nil {
		envOpts = append([]lisp.Config{lisp.WithStderr(cfg.stderr)}, envOpts...)
	}
	env, err := lisplib.NewEnv(nil, envOpts...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as the initial environment.  Each
// top-level expression is evaluated in the environment produced by the
// previous one.  Input is tokenized like the runtime's Reader.  When an
// expression fails to evaluate the error is displayed and the expressions
// following it on the same input line are discarded without being evaluated.
// RunEnv returns when input is exhausted.
func RunEnv(env *lisp.Env, prompt, cont string, opts ...Option) error {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr
	if out == nil {
		out = os.Stderr
	}

	p := rdparser.NewInteractiveReader(SourceName, env.Runtime.Reader)
	p.SetPrompts(prompt, cont)

	history := cfg.historyFile
	if history == "" && !cfg.noHistory {
		history = historyPath()
	}
	ensureHistoryFilePermissions(history)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            p.Prompt(),
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: func() *lisp.Env { return env }},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	renderer := &diagnostic.Renderer{Color: cfg.color}
	for {
		rl.SetPrompt(p.Prompt())
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			p.Reset()
			continue
		}
		if err != nil {
			break
		}
		if !p.IsParsing() && strings.TrimSpace(line) == "" {
			continue
		}
		exprs, perr := p.Feed(line)
		renderer.Sources = map[string]string{SourceName: p.Source()}
		for _, expr := range exprs {
			next, v, err := env.Eval(expr)
			if err != nil {
				renderer.RenderError(out, err) //nolint:errcheck // best-effort error display
				break
			}
			env = next
			fmt.Fprintln(out, v) //nolint:errcheck // best-effort REPL output
		}
		if perr != nil {
			renderer.RenderError(out, perr) //nolint:errcheck // best-effort error display
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slisp_history")
}

// ensureHistoryFilePermissions creates the history file at path if needed
// and restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	f.Close()                //nolint:errcheck,gosec // only created to set permissions
	_ = os.Chmod(path, 0600) //nolint:gosec // history may contain secrets
}
