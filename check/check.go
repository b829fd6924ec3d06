package check

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/gnolang/lineconf/internal"
	tt "github.com/gnolang/lineconf/internal/types"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressOutput receives the progress bar drawn while checking directories.
var ProgressOutput io.Writer = os.Stderr

type Engine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnorePath(path string)
}

// flusher is implemented by engines that buffer results, such as a cached
// *internal.Engine.
type flusher interface {
	Flush() error
}

// Matcher selects the files checked inside a directory.
type Matcher func(path string) bool

// New loads the configuration and builds an engine from it.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, Config, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, config, err
	}

	engine := internal.NewEngine()
	for _, path := range config.IgnorePaths {
		engine.IgnorePath(path)
	}

	if config.Cache.Enabled {
		cache, err := internal.NewCache(config.Cache.Dir)
		if err != nil {
			return nil, config, err
		}
		if config.Cache.MaxAge > 0 {
			cache.SetMaxAge(config.Cache.MaxAge)
		}
		if _, err := os.Stat(configurationPath); err == nil {
			if err := cache.SetDependencies(configurationPath); err != nil {
				return nil, config, err
			}
		}
		engine.SetCache(cache)
		if logger != nil {
			logger.Debug("Result cache enabled", zap.String("dir", config.Cache.Dir))
		}
	}

	return engine, config, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor func(Engine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	match Matcher,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, match, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	if f, ok := engine.(flusher); ok {
		if err := f.Flush(); err != nil && logger != nil {
			logger.Warn("Failed to write result cache", zap.Error(err))
		}
	}

	SortIssues(allIssues)
	return allIssues, nil
}

// ProcessPath checks a single file, or every matching file below a
// directory using one worker per CPU. A file named explicitly is always
// checked. Files that cannot be processed are logged and skipped.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	match Matcher,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	files, err := CollectFiles(path, match)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu     sync.Mutex
		issues = make([]tt.Issue, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, filePath := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fileIssues, err := processor(engine, filePath)
			_ = bar.Add(1)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				}
				return nil
			}

			mu.Lock()
			issues = append(issues, fileIssues...)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	_ = bar.Finish()

	if err := ctx.Err(); err != nil {
		return issues, err
	}

	SortIssues(issues)
	return issues, nil
}

// CollectFiles returns the files below dir accepted by match, in lexical
// order. A nil match accepts every file.
func CollectFiles(dir string, match Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (match == nil || match(filePath)) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}
	return files, nil
}

func ProcessFile(engine Engine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

// SortIssues orders issues by file, then by position.
func SortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Start.Column < b.Start.Column
	})
}
