package cmd

import (
	"io"

	"github.com/gnolang/lineconf/formatter"
	"github.com/gnolang/lineconf/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the parsed statements of a file as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(logger, cmd.OutOrStdout(), args[0], dumpFormat)
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", formatter.FormatJSON, "Output format: json or yaml")
}

func runDump(logger *zap.Logger, out io.Writer, path string, format string) error {
	doc, err := internal.NewEngine().Parse(path)
	if err != nil {
		logger.Error("Failed to parse file", zap.String("path", path), zap.Error(err))
		return err
	}
	return formatter.EncodeDocument(out, doc, format)
}
