package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nextapp/nextappd/config"
)

var configInitPath string

// ConfigCmd groups configuration-scaffolding subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nextappd's project configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a nextappd.toml scaffold populated with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configInitPath); err != nil {
			return err
		}
		pterm.Success.Printf("wrote %s\n", configInitPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "nextappd.toml", "Path to write")
	ConfigCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(ConfigCmd)
}
