// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/diagnostic"
	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser"
)

// Configuration keys.  Each key may be set in the config file, as a flag,
// or through an SLISP_ environment variable (dashes become underscores).
const (
	keyColor        = "color"
	keyPrelude      = "prelude"
	keyQuotedLists  = "quoted-lists"
	keyStrictLookup = "strict-lookup"
	keyMaxCallDepth = "max-call-depth"
	keyReader       = "reader"
	keyHistoryFile  = "history-file"
)

// runtimeConfig translates the configuration in v into lisp.Config options.
func runtimeConfig(v *viper.Viper) ([]lisp.Config, error) {
	var config []lisp.Config

	reader, err := parser.ReaderByName(v.GetString(keyReader))
	if err != nil {
		return nil, err
	}
	config = append(config, lisp.WithReader(reader))

	if path := v.GetString(keyPrelude); path != "" {
		config = append(config, lisp.WithPreludeFile(path))
	}

	mode, err := lisp.ParseQuoteMode(v.GetString(keyQuotedLists))
	if err != nil {
		return nil, err
	}
	config = append(config, lisp.WithQuoteMode(mode))

	if v.GetBool(keyStrictLookup) {
		config = append(config, lisp.WithStrictLookup())
	}

	depth := v.GetInt(keyMaxCallDepth)
	if depth < 0 {
		return nil, fmt.Errorf("invalid %s: %d", keyMaxCallDepth, depth)
	}
	if depth > 0 {
		config = append(config, lisp.WithMaximumCallDepth(depth))
	}
	return config, nil
}

// colorMode returns the configured diagnostic color mode.
func colorMode(v *viper.Viper) (diagnostic.ColorMode, error) {
	return diagnostic.ParseColorMode(v.GetString(keyColor))
}

// newEnv creates a root environment using rt from the configuration in v.
// Runtime output produced while loading the prelude is buffered and only
// written to stderr when initialization fails.
func newEnv(v *viper.Viper, rt *lisp.Runtime, stderr io.Writer) (*lisp.Env, error) {
	config, err := runtimeConfig(v)
	if err != nil {
		return nil, err
	}
	errbuf := &bytes.Buffer{}
	env, err := lisplib.NewEnv(rt, append(config, lisp.WithStderr(errbuf))...)
	if err != nil {
		_, _ = stderr.Write(errbuf.Bytes())
		return nil, fmt.Errorf("language initialization failure: %w", err)
	}
	env.Runtime.Stderr = stderr
	return env, nil
}
