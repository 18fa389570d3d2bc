// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/slisp/lisp"

// Option configures an exported command factory (DocCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.Env
}

// WithEnv injects a fully configured Env.  For the doc command this is the
// environment used for documentation queries.  For the lsp command its
// bindings are offered for hover and completion.
func WithEnv(env *lisp.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}
