package internal

import (
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	tt "github.com/gnolang/lineconf/internal/types"
	"github.com/gnolang/lineconf/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeFile(t testing.TB, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_run")

	tests := []struct {
		name     string
		content  string
		expected []tt.Issue
	}{
		{
			name:    "valid.conf",
			content: "# settings\nhost=\"localhost\"\n",
		},
		{
			name:    "bad_name.conf",
			content: "# settings\nx-y=\"v\"\n",
			expected: []tt.Issue{{
				Rule:    tt.RuleGrammarMismatch,
				Message: "line is neither a comment nor an assignment",
				Note:    `expected "# text" or "name=\"value\"" followed by a newline`,
				Start:   token.Position{Offset: 11, Line: 2, Column: 1},
				End:     token.Position{Offset: 17, Line: 2, Column: 7},
			}},
		},
		{
			name:    "unterminated.conf",
			content: "a=\"1\"\n  b=\"open\n",
			expected: []tt.Issue{{
				Rule:    tt.RuleInvalidString,
				Message: "string literal is unterminated or not valid UTF-8",
				Note:    `string literals need a closing '"'`,
				Start:   token.Position{Offset: 10, Line: 2, Column: 5},
				End:     token.Position{Offset: 14, Line: 2, Column: 9},
			}},
		},
	}

	engine := NewEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tempDir, tc.name, tc.content)
			for i := range tc.expected {
				tc.expected[i].Filename = path
				tc.expected[i].Start.Filename = path
				tc.expected[i].End.Filename = path
			}

			issues, err := engine.Run(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, issues)
		})
	}
}

func TestEngine_RunMissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewEngine().Run(filepath.Join(createTempDir(t, "missing"), "nope.conf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()
	engine := NewEngine()

	issues, err := engine.RunSource([]byte("=\"anon\"\n"))
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = engine.RunSource([]byte("x=\"v\""))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, tt.RuleGrammarMismatch, issues[0].Rule)
	assert.Equal(t, 1, issues[0].Start.Line)
}

func TestEngine_IgnorePath(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_ignore")
	vendor := filepath.Join(tempDir, "vendor")
	require.NoError(t, os.Mkdir(vendor, 0o755))
	bad := writeFile(t, vendor, "bad.conf", "not valid\n")
	generated := writeFile(t, tempDir, "gen_bad.conf", "not valid\n")
	other := writeFile(t, tempDir, "other.conf", "not valid\n")

	engine := NewEngine()
	engine.IgnorePath(vendor)
	engine.IgnorePath("gen_*.conf")

	issues, err := engine.Run(bad)
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = engine.Run(generated)
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = engine.Run(other)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestEngine_Parse(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_parse")
	good := writeFile(t, tempDir, "good.conf", "name=\"lineconf\"\n")
	bad := writeFile(t, tempDir, "bad.conf", "name=\"lineconf\"")

	engine := NewEngine()
	doc, err := engine.Parse(good)
	require.NoError(t, err)
	value, ok := doc.Lookup("name")
	assert.True(t, ok)
	assert.Equal(t, "lineconf", value)

	_, err = engine.Parse(bad)
	assert.ErrorIs(t, err, parser.ErrGrammarMismatch)
	assert.Contains(t, err.Error(), bad)
}

func TestEngine_RunUsesCache(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_cache")
	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	path := writeFile(t, tempDir, "cached.conf", "x=\"1\"\n")
	stale := []tt.Issue{{Rule: "from-cache", Filename: path}}
	setFromDisk(t, cache, path, stale)

	engine := NewEngine()
	engine.SetCache(cache)

	issues, err := engine.Run(path)
	require.NoError(t, err)
	assert.Equal(t, stale, issues)
}

func TestEngine_RunIgnoresResultOfOverwrittenContent(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_cache_race")
	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	engine := NewEngine()
	engine.SetCache(cache)

	// the file is rewritten between the read and the cache update
	path := writeFile(t, tempDir, "app.conf", "x=\"open\n")
	info, err := os.Stat(path)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	issues := engine.check(path, content)
	require.Len(t, issues, 1)

	writeFile(t, tempDir, "app.conf", "x=\"ok\"\n")
	cache.Set(path, content, info.ModTime(), issues)

	got, err := engine.Run(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	// the fresh result is cached and persisted by Flush
	require.NoError(t, engine.Flush())
	reopened, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)
	cached, found := reopened.Get(path)
	assert.True(t, found)
	assert.Empty(t, cached)
}

func TestEngine_ClearCache(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_clear")
	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	path := writeFile(t, tempDir, "a.conf", "x=\"1\"\n")
	setFromDisk(t, cache, path, []tt.Issue{{Rule: "from-cache"}})

	engine := NewEngine()
	require.NoError(t, engine.ClearCache())
	require.NoError(t, engine.Flush())

	engine.SetCache(cache)
	require.NoError(t, engine.ClearCache())

	issues, err := engine.Run(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIssueFromError_ForeignError(t *testing.T) {
	t.Parallel()
	issue := IssueFromError("f.conf", NewSourceCode([]byte("abc\n")), errors.New("boom"))
	assert.Equal(t, tt.RuleGrammarMismatch, issue.Rule)
	assert.Equal(t, "boom", issue.Message)
	assert.Equal(t, 1, issue.Start.Line)
	assert.Equal(t, 1, issue.Start.Column)
}

func TestSourceCode_Position(t *testing.T) {
	t.Parallel()
	src := NewSourceCode([]byte("ab\n\ncde\n"))

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 3, 1},
		{6, 3, 3},
		{8, 4, 1},
	}
	for _, tc := range tests {
		pos := src.Position(tc.offset)
		assert.Equal(t, tc.line, pos.Line, "offset %d", tc.offset)
		assert.Equal(t, tc.column, pos.Column, "offset %d", tc.offset)
	}

	end := src.LineEnd(3)
	assert.Equal(t, 3, end.Line)
	assert.Equal(t, 3, end.Column)
	assert.Equal(t, 6, end.Offset)

	empty := src.LineEnd(2)
	assert.Equal(t, 1, empty.Column)
}

func TestSourceCode_LineEndMultibyte(t *testing.T) {
	t.Parallel()
	src := NewSourceCode([]byte("a=\"1\"\nx=\"é\r\n"))

	end := src.LineEnd(2)
	assert.Equal(t, 4, end.Column)
	assert.Equal(t, 9, end.Offset)

	issues, err := NewEngine().RunSource([]byte("x=\"é"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Start.Column)
	assert.Equal(t, 4, issues[0].End.Column)
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "source_code_test")
	path := writeFile(t, tempDir, "a.conf", "# one\nx=\"2\"\n")

	src, err := ReadSourceCode(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# one", "x=\"2\"", ""}, src.Lines)

	_, err = ReadSourceCode(filepath.Join(tempDir, "missing"))
	assert.Error(t, err)
}
