package appendcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"huffar/pkg/archive"
	"huffar/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	compress      bool
	includeParent bool
	verbose       bool
)

var AppendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append files or directories to a HUFFAR archive",
	Long:  "Append multiple files and directories into an existing or new HUFFAR archive. Use -I to specify inputs and -O for output archive.",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		srcs, _ := cmd.Flags().GetStringSlice("input")
		// include leftover positional args (shell globs)
		srcs = append(srcs, args...)
		out, _ := cmd.Flags().GetString("output")

		if len(srcs) == 0 {
			fmt.Println("Error: at least one input must be provided with -I")
			cmd.Usage()
			os.Exit(2)
		}

		srcs = normalize(srcs)
		out = outputPath(srcs, out)

		opts := archive.PackOptions{
			Compress:      compress,
			IncludeParent: includeParent,
		}
		if verbose {
			opts.Logger = logger.New(os.Stderr)
		}

		if err := archive.Append(out, srcs, opts); err != nil {
			fmt.Printf("Error appending to archive %s: %s\n", out, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully appended %v to %s\n", srcs, out)
	},
}

// normalize resolves '.' and '..' so they have a usable base name.
func normalize(srcs []string) []string {
	out := make([]string, 0, len(srcs))
	for _, s := range srcs {
		if s == "." || s == ".." {
			if abs, err := filepath.Abs(s); err == nil {
				out = append(out, abs)
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func defaultName(srcs []string) string {
	if len(srcs) == 1 {
		return filepath.Base(strings.TrimRight(srcs[0], string(os.PathSeparator))) + archive.Ext
	}
	return "Archive" + archive.Ext
}

// outputPath picks the archive path: a name derived from the inputs when
// out is empty, that name inside out when out is a directory, out itself
// otherwise.
func outputPath(srcs []string, out string) string {
	if out == "" {
		return filepath.Join(".", defaultName(srcs))
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, defaultName(srcs))
	}
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, defaultName(srcs))
	}
	return archive.WithExt(out)
}

func init() {
	AppendCmd.Flags().BoolVarP(&compress, "compress", "C", false, "Compress entries when creating a new archive")
	AppendCmd.Flags().BoolVarP(&includeParent, "include-parent", "P", false, "Include a parent directory in the archival process")
	AppendCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every staged file")
	AppendCmd.Flags().StringSliceP("input", "I", nil, "Input files/directories (can be specified multiple times)")
	AppendCmd.Flags().StringP("output", "O", "", "Output archive path (file or directory)")
}
