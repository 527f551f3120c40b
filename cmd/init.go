package cmd

import (
	"fmt"
	"os"

	config "github.com/bluespot/cli/config"
	cobra "github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to .bluespot/config.yaml (or the path given
with --config) so it can be edited. Fails when the file already exists
unless --overwrite is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		if configPath == "" {
			configPath = ".bluespot/config.yaml"
		}

		if !overwrite {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists (use --overwrite to replace it)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("overwrite", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}
