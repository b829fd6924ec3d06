// Package internal holds the machinery behind the lineconf command line tool.
//
// Engine: parses lineconf files and turns parse failures into Issues located
// by line and column. It can be backed by a Cache so that unchanged files
// are not parsed again.
//
// Cache: an on-disk store of per-file results, invalidated when the file
// content, the file modification time or any registered dependency changes.
//
// Watcher: re-runs the Engine for files that change under a set of
// directories.
//
// SourceCode: the lines of a file, used to map byte offsets to positions
// and to print code snippets.
//
// Usage:
//
//	engine := internal.NewEngine()
//	issues, err := engine.Run("app.conf")
//	if err != nil {
//	    // handle error
//	}
//	for _, issue := range issues {
//	    fmt.Printf("%s: %s\n", issue.Start, issue.Message)
//	}
package internal
