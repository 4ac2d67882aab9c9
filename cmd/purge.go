package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parcel/internal/output"
	"parcel/internal/utils"
)

func newPurgeCmd() *cobra.Command {
	var downloadsOnly bool
	var splitsOnly bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all files under the downloads and splits directories",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			total := 0
			if !splitsOnly {
				count, err := utils.PurgeDir(settings.DownloadDir)
				if err != nil {
					output.PrintError(fmt.Sprintf("Error purging downloads: %v", err))
					os.Exit(1)
				}
				total += count
			}
			if !downloadsOnly {
				count, err := utils.PurgeDir(settings.SplitDir)
				if err != nil {
					output.PrintError(fmt.Sprintf("Error purging splits: %v", err))
					os.Exit(1)
				}
				total += count
			}
			output.PrintSuccess(fmt.Sprintf("Removed %d file(s)", total))
		},
	}
	cmd.Flags().BoolVar(&downloadsOnly, "downloads", false, "Purge only the downloads directory")
	cmd.Flags().BoolVar(&splitsOnly, "splits", false, "Purge only the splits directory")
	return cmd
}
