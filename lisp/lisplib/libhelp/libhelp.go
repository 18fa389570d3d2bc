// Copyright © 2024 The ELPS authors

// Package libhelp renders documentation for the names bound in an
// environment.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/luthersystems/slisp/lisp"
)

// MissingDoc describes a builtin with no documentation.
type MissingDoc struct {
	// Kind is the calling convention of the function: "builtin" or
	// "special".
	Kind string
	Name string
}

// CheckMissing reports the default builtins which have no docstring.
func CheckMissing() []MissingDoc {
	var missing []MissingDoc
	for _, b := range lisp.DefaultBuiltins() {
		if b.Docstring() != "" {
			continue
		}
		missing = append(missing, MissingDoc{Kind: b.Value().Fun.FunType.String(), Name: b.Name()})
	}
	return missing
}

// RenderBuiltins writes the signature and documentation of every default
// builtin to w.
func RenderBuiltins(w io.Writer) error {
	for i, b := range lisp.DefaultBuiltins() {
		if i > 0 {
			_, err := fmt.Fprintln(w)
			if err != nil {
				return err
			}
		}
		err := renderFun(w, b.Name(), b.Value())
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderVar writes documentation for the value bound to name in env.
// Functions have their signature and any docstring rendered.  Other values
// have their type and current value printed.
func RenderVar(w io.Writer, env *lisp.Env, name string) error {
	v, ok := env.Get(name)
	if !ok {
		return fmt.Errorf("unbound symbol: %s", name)
	}
	if v.Type != lisp.LFun {
		return renderVal(w, name, v)
	}
	return renderFun(w, name, v)
}

func renderVal(w io.Writer, name string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%s %s = %v\n", v.Type, name, v)
	return err
}

func renderFun(w io.Writer, name string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%s ", v.Fun.FunType)
	if err != nil {
		return fmt.Errorf("rendering function type: %w", err)
	}
	sig := append([]string{name}, v.Fun.Formals...)
	_, err = fmt.Fprintf(w, "(%s)\n", strings.Join(sig, " "))
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := cleanDocstring(v.Docstring())
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

func cleanDocstring(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, 72), 2)
	return strings.TrimSuffix(doc, "\n")
}
