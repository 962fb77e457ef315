package inspect

import (
	"fmt"
	"os"

	"huffar/pkg/archive"

	"github.com/spf13/cobra"
)

var InspectCmd = &cobra.Command{
	Use:   "inspect [archive]",
	Short: "View a HUFFAR archive",
	Long:  "Inspect the files in a HUFFAR archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arch := args[0]
		quiet, _ := cmd.Flags().GetBool("quiet")

		entries, h, err := archive.List(arch)
		if err != nil {
			fmt.Printf("Error inspecting archive %s: %s\n", arch, err)
			os.Exit(1)
		}

		fmt.Printf("Files in archive %s (version %d, compressed: %v):\n", arch, h.Version, h.Compressed())
		for i, e := range entries {
			if quiet {
				fmt.Printf("%d: %s\n", i, e.Path)
			} else {
				fmt.Printf("=====================\n%d:\n\tPath: %s\n\tStored: %d\n\tRaw: %d\n\tOffset: %d\n",
					i, e.Path, e.StoredSize, e.RawSize, e.DataOffset)
			}
		}
	},
}

func init() {
	InspectCmd.Flags().BoolP("quiet", "Q", false, "Only print entry paths")
}
