// Copyright © 2024 The ELPS authors

package lisp

import (
	"sort"
)

// Env is a persistent lexical environment.  An Env is a frame of bindings
// layered over a parent frame.  Frames are never modified after they are
// created so an Env may be shared freely between closures and callers.
// Adding bindings produces a new Env whose parent is the receiver, at a cost
// proportional to the number of new bindings.
type Env struct {
	Parent  *Env
	Scope   map[string]*LVal
	Runtime *Runtime
}

// NewEnvRuntime returns an empty root environment backed by rt.  If rt is
// nil a StandardRuntime is used.
func NewEnvRuntime(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{
		Scope:   map[string]*LVal{},
		Runtime: rt,
	}
}

// Bind returns a child of env in which name is bound to v.
func (env *Env) Bind(name string, v *LVal) *Env {
	return &Env{
		Parent:  env,
		Scope:   map[string]*LVal{name: v},
		Runtime: env.Runtime,
	}
}

// Extend returns a child of env containing a copy of bindings.  When there
// are no bindings env is returned unchanged.
func (env *Env) Extend(bindings map[string]*LVal) *Env {
	if len(bindings) == 0 {
		return env
	}
	scope := make(map[string]*LVal, len(bindings))
	for k, v := range bindings {
		scope[k] = v
	}
	return &Env{
		Parent:  env,
		Scope:   scope,
		Runtime: env.Runtime,
	}
}

// Get returns the value bound to name in the nearest frame which binds it.
func (env *Env) Get(name string) (*LVal, bool) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Lookup returns the value bound to name, or nil if name is not bound.
func (env *Env) Lookup(name string) *LVal {
	v, ok := env.Get(name)
	if !ok {
		return Nil()
	}
	return v
}

// Names returns the sorted set of names visible in env.
func (env *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for e := env; e != nil; e = e.Parent {
		for name := range e.Scope {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of frames in env's scope chain.
func (env *Env) Depth() int {
	n := 0
	for e := env; e != nil; e = e.Parent {
		n++
	}
	return n
}
