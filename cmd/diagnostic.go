// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/spf13/viper"

	"github.com/luthersystems/slisp/diagnostic"
)

// newRenderer returns a diagnostic renderer using the configured color mode.
// An invalid color setting falls back to automatic detection.
func newRenderer(v *viper.Viper) *diagnostic.Renderer {
	mode, _ := colorMode(v)
	return &diagnostic.Renderer{Color: mode}
}

// renderSourceError renders err to w.  Sources which were not read from
// files (expressions given on the command line) are provided in srcs so
// their snippets can be displayed.
func renderSourceError(v *viper.Viper, w io.Writer, err error, srcs []source) {
	r := newRenderer(v)
	for _, src := range srcs {
		if src.inline {
			if r.Sources == nil {
				r.Sources = make(map[string]string)
			}
			r.Sources[src.name] = src.text
		}
	}
	_ = r.RenderError(w, err)
}
