package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gnolang/lineconf/check"
	"github.com/gnolang/lineconf/formatter"
	"github.com/gnolang/lineconf/internal"
	tt "github.com/gnolang/lineconf/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ignorePaths     string
	checkJSONOutput bool
	outPath         string
	clearCache      bool
)

// stdinName is the filename reported for a document read from stdin.
const stdinName = "<stdin>"

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Parse files and report the ones that do not match the grammar",
	Long: `Parses every matching file under the given paths.
A single "-" reads one document from stdin.
Example) lineconf check configs/ app.conf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
		defer cancel()

		engine, config, err := check.New(cfgFile, logger)
		if err != nil {
			logger.Error("Failed to initialize engine", zap.Error(err))
			return err
		}

		for _, path := range splitList(ignorePaths) {
			engine.IgnorePath(path)
		}

		if clearCache {
			if err := engine.ClearCache(); err != nil {
				logger.Error("Failed to clear cache", zap.Error(err))
				return err
			}
		}

		if len(args) == 1 && args[0] == "-" {
			return runCheckStdin(ctx, logger, engine, cmd.InOrStdin(), cmd.OutOrStdout(), checkJSONOutput, outPath)
		}

		if checkJSONOutput {
			check.ProgressOutput = io.Discard
		}

		return runCheck(ctx, logger, engine, args, config.Matcher(), cmd.OutOrStdout(), checkJSONOutput, outPath)
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Drop cached results before checking")
}

func runCheck(
	ctx context.Context,
	logger *zap.Logger,
	engine check.Engine,
	paths []string,
	match check.Matcher,
	out io.Writer,
	isJSON bool,
	jsonOutput string,
) error {
	issues, err := check.ProcessFiles(ctx, logger, engine, paths, match, check.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		return err
	}

	if err := printIssues(logger, out, issues, nil, isJSON, jsonOutput); err != nil {
		return err
	}

	if len(issues) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// runCheckStdin checks a single document read from in.
func runCheckStdin(
	ctx context.Context,
	logger *zap.Logger,
	engine check.Engine,
	in io.Reader,
	out io.Writer,
	isJSON bool,
	jsonOutput string,
) error {
	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}

	issues, err := check.ProcessSources(ctx, logger, engine, [][]byte{source}, check.ProcessSource)
	if err != nil {
		return err
	}
	for i := range issues {
		issues[i].Filename = stdinName
		issues[i].Start.Filename = stdinName
		issues[i].End.Filename = stdinName
	}

	sources := map[string]*internal.SourceCode{stdinName: internal.NewSourceCode(source)}
	if err := printIssues(logger, out, issues, sources, isJSON, jsonOutput); err != nil {
		return err
	}

	if len(issues) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// printIssues writes issues grouped by file. Snippets come from sources
// when the file is listed there and from disk otherwise.
func printIssues(
	logger *zap.Logger,
	out io.Writer,
	issues []tt.Issue,
	sources map[string]*internal.SourceCode,
	isJSON bool,
	jsonOutput string,
) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJSON {
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(out, string(d))
			return err
		}
		return os.WriteFile(jsonOutput, d, 0o644)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		sourceCode, ok := sources[filename]
		if !ok {
			var err error
			sourceCode, err = internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
		}
		fmt.Fprint(out, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
