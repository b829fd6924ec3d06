package types

import "go/token"

// Rule names reported for documents that fail to parse.
const (
	RuleGrammarMismatch = "grammar-mismatch"
	RuleInvalidString   = "invalid-string-literal"
)

// Issue represents a problem found in a lineconf document.
type Issue struct {
	Rule     string
	Filename string
	Message  string
	Note     string
	Start    token.Position
	End      token.Position
}
