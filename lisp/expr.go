// Copyright © 2024 The ELPS authors

package lisp

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/luthersystems/slisp/parser/token"
)

// Expr is a node in the abstract syntax tree produced by a Reader.  The set
// of Expr implementations is closed; Eval dispatches on the concrete type.
// Expressions are never modified after they are constructed so subtrees may
// be shared freely, e.g. between a LambdaExpr and every closure created from
// it.
type Expr interface {
	// Loc returns the location of the first token in the expression.
	Loc() *token.Location
	// String returns the expression rendered as source text.
	String() string
	expr()
}

// ListExpr is a quoted list literal, '(a b c).
type ListExpr struct {
	Source   *token.Location
	Elements []Expr
}

// SExpr is a procedure call.
type SExpr struct {
	Source   *token.Location
	Operator Expr
	Operands []Expr
}

// LetExpr binds Name to the value of Value in the environment following the
// expression.
type LetExpr struct {
	Source *token.Location
	Name   string
	Value  Expr
}

// LambdaExpr is a function literal.  When SelfName is non-empty closures
// created from the expression can refer to themselves by that name.
type LambdaExpr struct {
	Source   *token.Location
	Params   []string
	Body     Expr
	SelfName string
}

// LookupExpr is a reference to a bound name.
type LookupExpr struct {
	Source *token.Location
	Name   string
}

type IntLiteral struct {
	Source *token.Location
	Value  int32
}

type FloatLiteral struct {
	Source *token.Location
	Value  float32
}

type StringLiteral struct {
	Source *token.Location
	Value  string
}

func (e *ListExpr) Loc() *token.Location      { return e.Source }
func (e *SExpr) Loc() *token.Location         { return e.Source }
func (e *LetExpr) Loc() *token.Location       { return e.Source }
func (e *LambdaExpr) Loc() *token.Location    { return e.Source }
func (e *LookupExpr) Loc() *token.Location    { return e.Source }
func (e *IntLiteral) Loc() *token.Location    { return e.Source }
func (e *FloatLiteral) Loc() *token.Location  { return e.Source }
func (e *StringLiteral) Loc() *token.Location { return e.Source }

func (*ListExpr) expr()      {}
func (*SExpr) expr()         {}
func (*LetExpr) expr()       {}
func (*LambdaExpr) expr()    {}
func (*LookupExpr) expr()    {}
func (*IntLiteral) expr()    {}
func (*FloatLiteral) expr()  {}
func (*StringLiteral) expr() {}

func (e *ListExpr) String() string {
	var buf bytes.Buffer
	buf.WriteString("'")
	writeList(&buf, e)
	return buf.String()
}

// writeList writes the elements of a quoted list.  Nested lists are already
// quoted by the outermost quote mark.
func writeList(buf *bytes.Buffer, e *ListExpr) {
	buf.WriteString("(")
	for i, elem := range e.Elements {
		if i > 0 {
			buf.WriteString(" ")
		}
		if inner, ok := elem.(*ListExpr); ok {
			writeList(buf, inner)
			continue
		}
		buf.WriteString(elem.String())
	}
	buf.WriteString(")")
}

func (e *SExpr) String() string {
	parts := make([]string, 0, len(e.Operands)+1)
	parts = append(parts, e.Operator.String())
	for _, rand := range e.Operands {
		parts = append(parts, rand.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (e *LetExpr) String() string {
	if lam, ok := e.Value.(*LambdaExpr); ok && lam.SelfName == e.Name {
		sig := append([]string{e.Name}, lam.Params...)
		return "(let (" + strings.Join(sig, " ") + ") " + lam.Body.String() + ")"
	}
	return "(let " + e.Name + " " + e.Value.String() + ")"
}

func (e *LambdaExpr) String() string {
	return "(lambda (" + strings.Join(e.Params, " ") + ") " + e.Body.String() + ")"
}

func (e *LookupExpr) String() string {
	return e.Name
}

func (e *IntLiteral) String() string {
	return strconv.FormatInt(int64(e.Value), 10)
}

func (e *FloatLiteral) String() string {
	return formatFloat(e.Value)
}

func (e *StringLiteral) String() string {
	return quoteString(e.Value)
}

// formatFloat always includes a fractional part so floats are
// distinguishable from ints when printed.
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// quoteString renders s as a string literal.  The only escape mechanism in
// string literals is a backslash, which makes the following character
// literal.
func quoteString(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, c := range s {
		if c == '"' || c == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
