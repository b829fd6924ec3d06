package parser

import (
	"io"
	"strings"
)

// Format writes the canonical text form of doc to w.
func Format(w io.Writer, doc Document) error {
	_, err := io.WriteString(w, doc.Format())
	return err
}

// Format renders the document one statement per line.
func (d Document) Format() string {
	var sb strings.Builder
	for _, stmt := range d {
		switch s := stmt.(type) {
		case *Comment:
			sb.WriteByte(commentStart)
			if s.Text != "" {
				sb.WriteByte(' ')
				sb.WriteString(s.Text)
			}
		case *Assignment:
			if s.Name != nil {
				sb.WriteString(*s.Name)
			}
			sb.WriteByte(assignmentOperator)
			formatExpression(&sb, s.Value)
		}
		sb.WriteByte(lineTerminator)
	}
	return sb.String()
}

func formatExpression(sb *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *Text:
		sb.WriteByte(stringBoundary)
		sb.WriteString(e.Value)
		sb.WriteByte(stringBoundary)
	}
}
