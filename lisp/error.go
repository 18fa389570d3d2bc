// Copyright © 2024 The ELPS authors

package lisp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/luthersystems/slisp/parser/token"
)

// Error conditions produced during evaluation.
const (
	CondNotCallable       = "not-callable"
	CondTypeError         = "type-error"
	CondArityError        = "arity-error"
	CondDivideByZero      = "divide-by-zero"
	CondUnboundSymbol     = "unbound-symbol"
	CondStackOverflow     = "stack-overflow"
	CondInvalidExpression = "invalid-expression"
	CondNoReader          = "no-reader"
)

// ErrorVal is an error produced while evaluating an expression.  Evaluation
// errors are ordinary values; the environment in which the failing expression
// was evaluated remains usable.
type ErrorVal struct {
	Cond   string
	Msg    string
	Source *token.Location
	// Stack is a copy of the call stack at the time the error occurred.
	Stack *CallStack
}

// Errorf returns an error with the given condition.  The location and call
// stack are attached when the error propagates out of a function call.
func Errorf(condition string, format string, v ...interface{}) error {
	return &ErrorVal{
		Cond: condition,
		Msg:  fmt.Sprintf(format, v...),
	}
}

// Errorf returns an error with the given condition which references the
// expression at src and the current call stack.
func (env *Env) Errorf(src *token.Location, condition string, format string, v ...interface{}) error {
	return &ErrorVal{
		Cond:   condition,
		Msg:    fmt.Sprintf(format, v...),
		Source: src,
		Stack:  env.Runtime.Stack.Copy(),
	}
}

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Cond, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Cond, e.Msg)
}

// Condition returns the error condition name (e.g., "type-error",
// "not-callable").
func (e *ErrorVal) Condition() string {
	return e.Cond
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	return e.Msg
}

// FunName returns the name of the function on the top of the call stack
// when the error occurred.
func (e *ErrorVal) FunName() string {
	top := e.Stack.Top()
	if top == nil {
		return ""
	}
	return top.Name
}

// WriteTrace writes the error and a stack trace to w
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	n, err := fmt.Fprintln(bw, e.Error())
	if err != nil {
		return n, err
	}
	if e.Stack != nil {
		_n, err := e.Stack.DebugPrint(bw)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// annotate attaches src and the current call stack to err if it is an
// ErrorVal that was created without them.
func (env *Env) annotate(src *token.Location, err error) error {
	lerr, ok := err.(*ErrorVal)
	if !ok {
		return err
	}
	if lerr.Source == nil {
		lerr.Source = src
	}
	if lerr.Stack == nil {
		lerr.Stack = env.Runtime.Stack.Copy()
	}
	return lerr
}
