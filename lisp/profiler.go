// Copyright © 2024 The ELPS authors

package lisp

// Profiler observes function calls made by an evaluating environment.
type Profiler interface {
	// IsEnabled returns true if the profiler should be notified of calls.
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// Complete ends the profiling session and flushes any output.
	Complete() error
	// Start marks the beginning of a call to fun and returns a function
	// which marks the end of the call.
	Start(fun *LVal) func()
}
