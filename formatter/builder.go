package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/gnolang/lineconf/internal"
	tt "github.com/gnolang/lineconf/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

const issueTemplate = `{{header .Rule .Filename .StartLine .StartColumn .MaxLineNumWidth}}` +
	`{{snippet .Line .StartLine .MaxLineNumWidth .Padding}}` +
	`{{underlineAndMessage .Message .Padding .Line .StartColumn .EndColumn}}` +
	`{{note .Note .Padding}}` + "\n"

var issueTmpl = template.Must(template.New("issue").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
}).Parse(issueTemplate))

// GenerateFormattedIssue formats a slice of issues into a human-readable string.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, snippet))
	}
	return builder.String()
}

type IssueData struct {
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Note            string
	Line            string
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode) string {
	maxLineNumWidth := calculateMaxLineNumWidth(issue.Start.Line)

	var line string
	if snippet != nil && issue.Start.Line > 0 && issue.Start.Line <= len(snippet.Lines) {
		line = strings.TrimRight(snippet.Lines[issue.Start.Line-1], "\r")
	}

	endColumn := issue.End.Column
	if issue.End.Line != issue.Start.Line || endColumn < issue.Start.Column {
		endColumn = issue.Start.Column
	}

	data := IssueData{
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       issue.Start.Line,
		StartColumn:     issue.Start.Column,
		EndColumn:       endColumn,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Message:         issue.Message,
		Note:            issue.Note,
		Line:            line,
	}

	var buf bytes.Buffer
	if err := issueTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(rule string, filename string, startLine int, startColumn int, maxLineNumWidth int) string {
	endString := errorStyle.Sprint("error: ")
	endString += ruleStyle.Sprintf("%s\n", rule)

	if filename == "" {
		filename = "<input>"
	}
	endString += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	return endString + "\n"
}

func codeSnippet(line string, startLine int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	endString += lineStyle.Sprintf("%*d | ", maxLineNumWidth, startLine)
	endString += expandTabs(line) + "\n"
	return endString
}

func underlineAndMessage(message string, padding string, line string, startColumn int, endColumn int) string {
	underlineStart := calculateVisualColumn(line, startColumn)
	underlineEnd := calculateVisualColumn(line, endColumn)
	underlineLength := underlineEnd - underlineStart + 1

	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func note(note string, padding string) string {
	if note == "" {
		return ""
	}
	endString := lineStyle.Sprintf("%s= ", padding)
	endString += noteStyle.Sprint("note: ")
	endString += note + "\n"
	return endString
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns the number of screen cells before the given
// 1-based byte column, taking tab stops into account.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var sb strings.Builder
	visualColumn := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (visualColumn % tabWidth)
			sb.WriteString(strings.Repeat(" ", n))
			visualColumn += n
			continue
		}
		sb.WriteRune(ch)
		visualColumn++
	}
	return sb.String()
}
