package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "View HUFFAR's version",
	Long:  "Display the version of HUFFAR installed on your system.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "HUFFAR version %s\n", Version)
		return nil
	},
}
