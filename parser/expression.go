package parser

import "unicode/utf8"

// rule is one grammar alternative. It returns errNoMatch when the input does
// not start with the alternative; any other error aborts the parse.
type rule[T any] func(b *buffer) (T, error)

// firstMatch tries rules in order and commits to the first that matches.
func firstMatch[T any](b *buffer, rules []rule[T]) (T, error) {
	var zero T
	start := b.mark()
	for _, r := range rules {
		v, err := r(b)
		if err == nil {
			return v, nil
		}
		b.reset(start)
		if err != errNoMatch {
			return zero, err
		}
	}
	return zero, errNoMatch
}

// expressionRules lists the expression forms in the order they are tried.
var expressionRules = []rule[Expression]{
	parseText,
}

func parseExpression(b *buffer) (Expression, error) {
	return firstMatch(b, expressionRules)
}

// parseText reads a string literal. Once the opening quote is seen the
// literal must be terminated and valid UTF-8.
func parseText(b *buffer) (Expression, error) {
	start := b.mark()
	if !b.consume(stringBoundary) {
		return nil, errNoMatch
	}
	body, ok := b.takeUntil(stringBoundary)
	if !ok || !utf8.Valid(body) {
		return nil, &SyntaxError{Rule: RuleString, Offset: start}
	}
	b.consume(stringBoundary)
	return &Text{Value: string(body)}, nil
}
