package stats

import (
	"fmt"
	"io"
	"os"

	"huffar/pkg/stats"

	"github.com/spf13/cobra"
)

var showCodes bool

var StatsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Report Huffman compression statistics for a file",
	Long:  "Report entropy, Huffman code length, packed size and a zstd baseline for a file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading %s: %s\n", args[0], err)
			os.Exit(1)
		}
		r, err := stats.Compute(data)
		if err != nil {
			fmt.Printf("Error computing statistics for %s: %s\n", args[0], err)
			os.Exit(1)
		}
		report(cmd.OutOrStdout(), args[0], r, showCodes)
	},
}

func report(w io.Writer, name string, r stats.Report, codes bool) {
	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "\tRaw: %d bytes\n", r.RawSize)
	fmt.Fprintf(w, "\tAlphabet: %d symbols\n", r.AlphabetSize)
	fmt.Fprintf(w, "\tEntropy: %.4f bits/byte\n", r.Entropy)
	fmt.Fprintf(w, "\tHuffman: %.4f bits/byte, %d bits, tree height %d\n", r.AverageCodeLength, r.EncodedBits, r.TreeHeight)
	fmt.Fprintf(w, "\tStream: %d bytes (%.2f%%)\n", r.StreamSize, r.Ratio()*100)
	fmt.Fprintf(w, "\tZstd: %d bytes\n", r.ZstdSize)
	if !codes {
		return
	}
	for _, row := range r.Codes {
		fmt.Fprintf(w, "\t%#02x\t%d\t%s\n", row.Symbol, row.Count, row.Code)
	}
}

func init() {
	StatsCmd.Flags().BoolVarP(&showCodes, "codes", "c", false, "List every symbol's code")
}
