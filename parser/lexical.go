package parser

import "unicode"

const (
	commentStart       = '#'
	stringBoundary     = '"'
	assignmentOperator = '='
	lineTerminator     = '\n'
)

// IsAssignmentNameChar reports whether r may appear in an assignment name.
func IsAssignmentNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// IsStringBoundary reports whether r opens or closes a string literal.
func IsStringBoundary(r rune) bool {
	return r == stringBoundary
}

func isInlineSpace(r rune) bool {
	return r != lineTerminator && unicode.IsSpace(r)
}
