// Copyright © 2024 The ELPS authors

package lisp

import (
	"fmt"
)

// TrueSymbol is bound to the special operator which evaluates the first of
// two branches.  Comparisons return its value for a true result.
const TrueSymbol = "true"

// FalseSymbol is bound to the special operator which evaluates the second of
// two branches.  Comparisons return its value for a false result.
const FalseSymbol = "false"

// ConsSymbol is the name whose value a non-empty quoted list evaluates to
// under QuoteLegacy.
const ConsSymbol = "cons"

// InitializeUserEnv applies config to rt and returns a root environment
// containing the builtins and the definitions of the configured prelude.  If
// rt is nil a StandardRuntime is used.  An error is returned if any config
// fails or if the prelude cannot be parsed or evaluated.
func InitializeUserEnv(rt *Runtime, config ...Config) (*Env, error) {
	if rt == nil {
		rt = StandardRuntime()
	}
	if rt.Stack == nil {
		rt.Stack = &CallStack{}
	}
	for _, fn := range config {
		err := fn(rt)
		if err != nil {
			return nil, err
		}
	}
	env := NewEnvRuntime(rt).Extend(builtinBindings())
	if rt.prelude == nil {
		return env, nil
	}
	if rt.Reader == nil {
		return nil, fmt.Errorf("prelude %s: no reader configured", rt.prelude.name)
	}
	env, _, err := env.loadLocation(rt.prelude.name, rt.prelude.path, rt.prelude.text)
	if err != nil {
		return nil, fmt.Errorf("prelude %s: %w", rt.prelude.name, err)
	}
	return env, nil
}
