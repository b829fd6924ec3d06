package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnolang/lineconf/check"
	"github.com/gnolang/lineconf/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Check files again whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, config, err := check.New(cfgFile, logger)
		if err != nil {
			logger.Error("Failed to initialize engine", zap.Error(err))
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, logger, engine, args, config.Matcher())
	},
}

func runWatch(ctx context.Context, logger *zap.Logger, engine *internal.Engine, dirs []string, match check.Matcher) error {
	logger.Info("Watching for changes", zap.Strings("dirs", dirs))
	return internal.NewWatcher(engine, logger, dirs, match, nil).Run(ctx)
}
