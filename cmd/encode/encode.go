package encode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"huffar/pkg/huffman"

	"github.com/spf13/cobra"
)

var text string

var EncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Show the Huffman code and bit stream of a file",
	Long:  "Build the Huffman code for a file (or --string), print the code table and the '0'/'1' encoded stream, then decode it back.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := input(args)
		if err != nil {
			fmt.Printf("Error reading input: %s\n", err)
			os.Exit(1)
		}
		if err := run(cmd.OutOrStdout(), data); err != nil {
			fmt.Printf("Error encoding input: %s\n", err)
			os.Exit(1)
		}
	},
}

func input(args []string) ([]byte, error) {
	switch {
	case text != "" && len(args) > 0:
		return nil, errors.New("give either a file or --string, not both")
	case text != "":
		return []byte(text), nil
	case len(args) == 1:
		return os.ReadFile(args[0])
	}
	return nil, errors.New("nothing to encode")
}

func run(w io.Writer, data []byte) error {
	c, err := huffman.NewCodec(huffman.BuildFrequencyTable(data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Text: %q\n\n", data)
	fmt.Fprintln(w, "Codes:")
	for _, e := range c.Table() {
		code, _ := c.Codes().Lookup(e.Symbol)
		fmt.Fprintf(w, "\t%q\t%d\t%s\n", e.Symbol, e.Count, code)
	}

	stream, err := c.Encode(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nEncoded: %s\n", stream)

	decoded, err := c.Decode(stream)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nDecoded: %q\n", decoded)
	return nil
}

func init() {
	EncodeCmd.Flags().StringVarP(&text, "string", "s", "", "Encode this string instead of a file")
}
