package unpack

import (
	"fmt"
	"os"

	"huffar/pkg/archive"

	"github.com/spf13/cobra"
)

var UnpackCmd = &cobra.Command{
	Use:   "unpack [archive] [output]",
	Short: "Unpack a HUFFAR archive to an output directory",
	Long:  "Unpack a HUFFAR archive to an output directory, verifying every entry's size.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		arch := args[0]
		out := args[1]

		if err := archive.Unpack(arch, out); err != nil {
			fmt.Printf("Error unpacking archive %s: %s\n", arch, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully unpacked archive %s to directory %s\n", arch, out)
	},
}
