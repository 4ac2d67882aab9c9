package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"parcel/internal/output"
	"parcel/internal/split"
)

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [FILE]",
		Short: "Split a local file into bounded-size parts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			parts, err := split.Split(args[0], settings.PartSize, settings.SplitDir)
			if err != nil {
				output.PrintError(fmt.Sprintf("Split failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Split into %d part(s)", len(parts)))
			for _, part := range parts {
				output.PrintDetail(fmt.Sprintf("  part %d %s %s", part.Index, output.StyleSymbols["arrow"], part.Path))
			}
		},
	}
	return cmd
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join [DEST] [PART]...",
		Short: "Reassemble split parts into a single file",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			parts := make([]split.Part, 0, len(args)-1)
			for i, path := range args[1:] {
				parts = append(parts, split.Part{Index: partIndex(path, i+1), Path: path})
			}
			sort.Slice(parts, func(i, j int) bool { return parts[i].Index < parts[j].Index })
			if err := split.Join(parts, args[0]); err != nil {
				output.PrintError(fmt.Sprintf("Join failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Joined %d part(s) into %s", len(parts), args[0]))
		},
	}
}

// partIndex recovers the 1-based index from a .partNN suffix, falling
// back to the argument position for unnamed parts.
func partIndex(path string, fallback int) int {
	idx := strings.LastIndex(path, ".part")
	if idx < 0 {
		return fallback
	}
	n, err := strconv.Atoi(path[idx+len(".part"):])
	if err != nil {
		return fallback
	}
	return n
}
