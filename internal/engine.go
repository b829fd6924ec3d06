package internal

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tt "github.com/gnolang/lineconf/internal/types"
	"github.com/gnolang/lineconf/parser"
)

// Engine checks lineconf files for parse failures.
type Engine struct {
	ignoredPaths []string
	cache        *Cache
}

// NewEngine creates an engine without a cache.
func NewEngine() *Engine {
	return &Engine{}
}

// SetCache makes the engine reuse results stored in c.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// IgnorePath skips files whose path matches the given glob or lies under
// the given directory.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnored(filename string) bool {
	clean := filepath.Clean(filename)
	for _, pattern := range e.ignoredPaths {
		if clean == pattern || strings.HasPrefix(clean, pattern+string(filepath.Separator)) {
			return true
		}
		if ok, _ := filepath.Match(pattern, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(clean)); ok {
			return true
		}
	}
	return false
}

// Run parses the given file and returns its issues. The error is non-nil
// only when the file cannot be read.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnored(filename) {
		return nil, nil
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			return issues, nil
		}
	}

	// the mtime is taken before the read; a concurrent write makes the
	// cache entry mismatch the file
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	issues := e.check(filename, content)

	if e.cache != nil {
		e.cache.Set(filename, content, info.ModTime(), issues)
	}
	return issues, nil
}

// Flush persists cached results. It is a no-op without a cache.
func (e *Engine) Flush() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Flush()
}

// ClearCache drops every cached result.
func (e *Engine) ClearCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.InvalidateAll()
}

// RunSource checks an in-memory document.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.check("", source), nil
}

// Parse reads and parses a file, returning the document.
func (e *Engine) Parse(filename string) (parser.Document, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	doc, err := parser.ParseBytes(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}

func (e *Engine) check(filename string, content []byte) []tt.Issue {
	_, err := parser.ParseBytes(content)
	if err == nil {
		return nil
	}
	return []tt.Issue{IssueFromError(filename, NewSourceCode(content), err)}
}

// IssueFromError converts a parse error into an Issue located in src.
func IssueFromError(filename string, src *SourceCode, err error) tt.Issue {
	issue := tt.Issue{
		Rule:     tt.RuleGrammarMismatch,
		Filename: filename,
		Message:  "line is neither a comment nor an assignment",
		Note:     `expected "# text" or "name=\"value\"" followed by a newline`,
	}

	offset := 0
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
		if syntaxErr.Rule == parser.RuleString {
			issue.Rule = tt.RuleInvalidString
			issue.Message = "string literal is unterminated or not valid UTF-8"
			issue.Note = `string literals need a closing '"'`
		}
	} else {
		issue.Message = err.Error()
		issue.Note = ""
	}

	issue.Start = src.Position(offset)
	issue.Start.Filename = filename
	issue.End = src.LineEnd(issue.Start.Line)
	issue.End.Filename = filename
	return issue
}

// SourceCode stores the content of a source file as lines.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits content into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// Position maps a byte offset to a 1-based line and column.
// Offsets past the end map to the end of the last line.
func (s *SourceCode) Position(offset int) token.Position {
	remaining := offset
	for i, line := range s.Lines {
		if remaining <= len(line) {
			return token.Position{Offset: offset, Line: i + 1, Column: remaining + 1}
		}
		remaining -= len(line) + 1
	}
	last := len(s.Lines)
	return s.LineEnd(last)
}

// LineEnd returns the position of the last character on the given line.
func (s *SourceCode) LineEnd(line int) token.Position {
	if line < 1 || line > len(s.Lines) {
		return token.Position{Line: line, Column: 1}
	}
	offset := 0
	for i := 0; i < line-1; i++ {
		offset += len(s.Lines[i]) + 1
	}
	text := strings.TrimRight(s.Lines[line-1], "\r")
	if text == "" {
		return token.Position{Offset: offset, Line: line, Column: 1}
	}
	// column of the first byte of the last rune
	_, size := utf8.DecodeLastRuneInString(text)
	column := len(text) - size + 1
	return token.Position{Offset: offset + column - 1, Line: line, Column: column}
}
