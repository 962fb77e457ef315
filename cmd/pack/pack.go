package pack

import (
	"fmt"
	"os"

	"huffar/pkg/archive"
	"huffar/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	compress      bool
	includeParent bool
	verbose       bool
)

var PackCmd = &cobra.Command{
	Use:   "pack [sources...] [output]",
	Short: "Pack files and directories into a HUFFAR archive",
	Long:  "Pack multiple files and directories recursively into a single HUFFAR archive.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		out := args[len(args)-1]
		srcs := args[:len(args)-1]

		opts := archive.PackOptions{
			Compress:      compress,
			IncludeParent: includeParent,
		}
		if verbose {
			opts.Logger = logger.New(os.Stderr)
		}

		if err := archive.Pack(srcs, out, opts); err != nil {
			fmt.Printf("Error packing sources %v into %s: %s\n", srcs, out, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully packed %v into %s\n", srcs, archive.WithExt(out))
	},
}

func init() {
	PackCmd.Flags().BoolVarP(&compress, "compress", "C", false, "Enable Huffman compression")
	PackCmd.Flags().BoolVarP(&includeParent, "include-parent", "P", false, "Include a parent directory in the archival process")
	PackCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every staged file")
}
