package parser

// Parse parses a complete document. On failure no statements are returned
// and the error wraps ErrGrammarMismatch.
func Parse(input string) (Document, error) {
	return ParseBytes([]byte(input))
}

// ParseBytes is like Parse but reads from a byte slice. The returned
// document does not reference input.
func ParseBytes(input []byte) (Document, error) {
	b := newBuffer(input)
	doc := Document{}

	for {
		b.skipSpace()
		if b.eof() {
			return doc, nil
		}

		start := b.mark()
		stmt, err := parseStatement(b)
		if err == errNoMatch {
			return nil, &SyntaxError{Rule: RuleStatement, Offset: start}
		}
		if err != nil {
			return nil, err
		}
		doc = append(doc, stmt)
	}
}
