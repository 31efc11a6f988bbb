package cli

import (
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:          "skilltrack",
	Short:        "Track skills that decay unless you practice them",
	Long:         "Skilltrack keeps a proficiency score per skill that decays over time and is boosted by recent commit activity on GitHub.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "skilltrack server URL (default $SKILLTRACK_URL or http://127.0.0.1:5000)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(syncCmd)
}
