package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gnolang/lineconf/parser"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by EncodeDocument.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StatementView is the serialized form of a statement.
type StatementView struct {
	Kind  string  `json:"kind" yaml:"kind"`
	Text  *string `json:"text,omitempty" yaml:"text,omitempty"`
	Name  *string `json:"name,omitempty" yaml:"name,omitempty"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// DocumentView projects a document into plain values.
func DocumentView(doc parser.Document) []StatementView {
	views := make([]StatementView, 0, len(doc))
	for _, stmt := range doc {
		view := StatementView{Kind: stmt.Kind().String()}
		switch s := stmt.(type) {
		case *parser.Comment:
			text := s.Text
			view.Text = &text
		case *parser.Assignment:
			view.Name = s.Name
			if t, ok := s.Value.(*parser.Text); ok {
				value := t.Value
				view.Value = &value
			}
		}
		views = append(views, view)
	}
	return views
}

// EncodeDocument writes doc to w as JSON or YAML.
func EncodeDocument(w io.Writer, doc parser.Document, format string) error {
	views := DocumentView(doc)
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
