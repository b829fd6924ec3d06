package cmd

import (
	"fmt"
	"os"

	"github.com/gnolang/lineconf/check"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

// initCmd: lineconf init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, initForce); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = check.DefaultConfigFile
	}

	if _, err := os.Stat(configurationPath); err == nil && !force {
		return fmt.Errorf("%s already exists", configurationPath)
	}

	return check.WriteConfig(configurationPath, check.DefaultConfig())
}
