package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rememberme",
	Short: "Memory companion for people living with memory loss",
	Long:  "RememberMe keeps family, memories, events and patient details in one place and uses a language model to turn them into stories and daily highlights.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(patientCmd)
}
