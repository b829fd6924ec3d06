package parser

import (
	"errors"
	"fmt"
)

// ErrGrammarMismatch is wrapped by every error Parse returns.
var ErrGrammarMismatch = errors.New("grammar mismatch")

// errNoMatch marks an alternative that did not apply; the caller backtracks
// and tries the next one.
var errNoMatch = errors.New("no alternative matched")

// Rule names carried by SyntaxError.
const (
	RuleStatement = "statement"
	RuleString    = "string"
)

// SyntaxError is returned when the input does not match the grammar.
// Offset is the byte offset where the failing rule started.
type SyntaxError struct {
	Rule   string
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d", ErrGrammarMismatch, e.Rule, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return ErrGrammarMismatch }
