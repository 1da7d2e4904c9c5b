package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the configuration that run would use after applying the preset, the --config file and any flags. The output is a valid --config file.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Warnf("Configuration is invalid: %v", err)
		}
		data, err := cfg.YAML()
		if err != nil {
			logrus.Fatalf("Failed to render config: %v", err)
		}
		_, _ = cmd.OutOrStdout().Write(data)
	},
}

func init() {
	addConfigFlags(configCmd)
	rootCmd.AddCommand(configCmd)
}
