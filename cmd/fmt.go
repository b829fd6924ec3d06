package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gnolang/lineconf/check"
	"github.com/gnolang/lineconf/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fmtWrite bool
	fmtList  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Rewrite files in canonical form",
	Long: `Prints the canonical form of each file: one statement per line,
"# " before comment text and no spaces around '='.
Example) lineconf fmt -w configs/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := check.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		return runFmt(logger, cmd.OutOrStdout(), args, config.Matcher(), fmtWrite, fmtList)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write result to the source file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "List files whose formatting differs")
}

func runFmt(logger *zap.Logger, out io.Writer, paths []string, match check.Matcher, write bool, list bool) error {
	engine := internal.NewEngine()

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := check.CollectFiles(path, match)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	var failed bool
	for _, file := range files {
		original, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		doc, err := engine.Parse(file)
		if err != nil {
			logger.Error("Skipping file that does not parse", zap.String("file", file), zap.Error(err))
			failed = true
			continue
		}

		formatted := []byte(doc.Format())
		changed := !bytes.Equal(original, formatted)

		switch {
		case list:
			if changed {
				fmt.Fprintln(out, file)
			}
		case write:
			if !changed {
				continue
			}
			if err := os.WriteFile(file, formatted, 0o644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
			logger.Info("Formatted file", zap.String("file", file))
		default:
			if _, err := out.Write(formatted); err != nil {
				return err
			}
		}
	}

	if failed {
		return ErrIssuesFound
	}
	return nil
}
