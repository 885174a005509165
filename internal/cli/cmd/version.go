package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/webbridge/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		renderer := styles.NewReportRenderer(styles.NewTheme())
		_, err := fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderVersion(buildInfo))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
