package main

import (
	"os"

	appendcmd "huffar/cmd/append"
	encode "huffar/cmd/encode"
	inspect "huffar/cmd/inspect"
	pack "huffar/cmd/pack"
	stats "huffar/cmd/stats"
	unpack "huffar/cmd/unpack"
	version "huffar/cmd/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "huffar",
	Short: "HUFFAR archive utility",
	Long:  "HUFFAR packs files into an archive, optionally compressing each one with static Huffman coding.",
}

func main() {
	rootCmd.AddCommand(pack.PackCmd)
	rootCmd.AddCommand(unpack.UnpackCmd)
	rootCmd.AddCommand(appendcmd.AppendCmd)
	rootCmd.AddCommand(inspect.InspectCmd)
	rootCmd.AddCommand(encode.EncodeCmd)
	rootCmd.AddCommand(stats.StatsCmd)
	rootCmd.AddCommand(version.VersionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
