package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// StatementKind identifies the alternative a Statement was parsed from.
type StatementKind int

const (
	StatementComment StatementKind = iota
	StatementAssignment
)

func (k StatementKind) String() string {
	switch k {
	case StatementComment:
		return "comment"
	case StatementAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// ExpressionKind identifies the form of an Expression.
type ExpressionKind int

const (
	ExpressionText ExpressionKind = iota
)

func (k ExpressionKind) String() string {
	switch k {
	case ExpressionText:
		return "text"
	default:
		return "unknown"
	}
}

// Statement is one top-level unit of a document. It is either a *Comment
// or an *Assignment.
type Statement interface {
	Kind() StatementKind
	String() string
	statementNode()
}

// Expression is the right-hand side of an assignment. *Text is the only
// form today.
type Expression interface {
	Kind() ExpressionKind
	String() string
	expressionNode()
}

var (
	_ Statement  = (*Comment)(nil)
	_ Statement  = (*Assignment)(nil)
	_ Expression = (*Text)(nil)
)

// Comment holds the body of a '#' line without the marker and the newline.
type Comment struct {
	Text string
}

func (c *Comment) Kind() StatementKind { return StatementComment }
func (c *Comment) String() string      { return fmt.Sprintf("Comment(%s)", strconv.Quote(c.Text)) }
func (c *Comment) statementNode()      {}

// Assignment binds Value to Name. Name is nil for an anonymous assignment.
type Assignment struct {
	Name  *string
	Value Expression
}

// NewAssignment is a helper for building named assignments.
func NewAssignment(name string, value Expression) *Assignment {
	return &Assignment{Name: &name, Value: value}
}

// NewAnonymousAssignment builds an assignment without a name.
func NewAnonymousAssignment(value Expression) *Assignment {
	return &Assignment{Value: value}
}

func (a *Assignment) Kind() StatementKind { return StatementAssignment }

func (a *Assignment) String() string {
	name := "None"
	if a.Name != nil {
		name = strconv.Quote(*a.Name)
	}
	return fmt.Sprintf("Assignment(%s, %s)", name, a.Value)
}

func (a *Assignment) statementNode() {}

// HasName reports whether the assignment carries a name.
func (a *Assignment) HasName() bool { return a.Name != nil }

// Text is a string literal. Value is the exact content between the quotes.
type Text struct {
	Value string
}

func (t *Text) Kind() ExpressionKind { return ExpressionText }
func (t *Text) String() string       { return fmt.Sprintf("Text(%s)", strconv.Quote(t.Value)) }
func (t *Text) expressionNode()      {}

// Document is the result of a parse: statements in source order.
type Document []Statement

func (d Document) String() string {
	result := fmt.Sprintf("Document(%d statements):\n", len(d))
	for i, stmt := range d {
		result += fmt.Sprintf("  %d: %s\n", i, stmt)
	}
	return strings.TrimRight(result, "\n")
}

// Lookup returns the value of the last assignment named name.
// Only text expressions are reported.
func (d Document) Lookup(name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, stmt := range d {
		a, ok := stmt.(*Assignment)
		if !ok || a.Name == nil || *a.Name != name {
			continue
		}
		if t, ok := a.Value.(*Text); ok {
			value, found = t.Value, true
		}
	}
	return value, found
}

// Assignments returns the assignment statements of d in order.
func (d Document) Assignments() []*Assignment {
	var out []*Assignment
	for _, stmt := range d {
		if a, ok := stmt.(*Assignment); ok {
			out = append(out, a)
		}
	}
	return out
}
