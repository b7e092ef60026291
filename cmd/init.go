package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/liftsim/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize liftsim configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to describe the elevator and default scenario, and writes a .liftsim.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
