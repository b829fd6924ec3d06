package parser

import "unicode/utf8"

// statementRules lists the statement alternatives in the order they are tried.
var statementRules = []rule[Statement]{
	parseComment,
	parseAssignment,
}

func parseStatement(b *buffer) (Statement, error) {
	return firstMatch(b, statementRules)
}

func parseComment(b *buffer) (Statement, error) {
	if !b.consume(commentStart) {
		return nil, errNoMatch
	}
	b.skipInlineSpace()
	body, ok := b.takeUntil(lineTerminator)
	if !ok || !utf8.Valid(body) {
		return nil, errNoMatch
	}
	b.consume(lineTerminator)
	return &Comment{Text: string(body)}, nil
}

func parseAssignment(b *buffer) (Statement, error) {
	var name *string
	if run := b.takeWhile(IsAssignmentNameChar); len(run) > 0 {
		s := string(run)
		name = &s
	}

	b.skipSpace()
	if !b.consume(assignmentOperator) {
		return nil, errNoMatch
	}

	b.skipSpace()
	value, err := parseExpression(b)
	if err != nil {
		return nil, err
	}

	b.skipInlineSpace()
	if !b.consume(lineTerminator) {
		return nil, errNoMatch
	}
	return &Assignment{Name: name, Value: value}, nil
}
