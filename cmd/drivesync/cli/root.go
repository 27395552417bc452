package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCommand(version string) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "drivesync",
		Short:         "Mirror the Google Drive portfolio into the local image cache",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./drivesync.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	return cmd
}
