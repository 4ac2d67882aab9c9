package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parcel/internal/config"
	"parcel/internal/download"
	"parcel/internal/output"
)

func newBatchCmd() *cobra.Command {
	var urls []string

	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Fetch multiple URLs concurrently from a YAML list or repeated --url flags",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var reqs []download.Request
			if len(args) == 1 {
				entries, err := config.ReadFetchList(args[0])
				if err != nil {
					output.PrintError(fmt.Sprintf("Failed to read batch file: %v", err))
					os.Exit(1)
				}
				for _, entry := range entries {
					reqs = append(reqs, download.Request{URL: entry.URL, FileName: entry.OutputName})
				}
			}
			for _, url := range urls {
				reqs = append(reqs, download.Request{URL: url})
			}
			if len(reqs) == 0 {
				output.PrintError("No URLs provided")
				os.Exit(1)
			}

			mgr := buildManager()
			defer watchInterrupt(mgr)()
			display := output.NewDisplay(mgr.Active)
			display.Start()
			result := mgr.FetchAll(context.Background(), reqs, settings.Workers)
			display.Stop()

			fmt.Println()
			for _, item := range result.Items {
				reportItem(item)
			}
			output.PrintInfo(fmt.Sprintf("%d/%d transfers succeeded", result.Successes, len(result.Items)))
			if result.Successes < len(result.Items) {
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringArrayVarP(&urls, "url", "u", []string{}, "URL to fetch; can be specified multiple times")
	return cmd
}
