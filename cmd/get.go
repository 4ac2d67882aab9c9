package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"parcel/internal/download"
	"parcel/internal/output"
)

func newGetCmd() *cobra.Command {
	var outputName string

	cmd := &cobra.Command{
		Use:   "get [URL]",
		Short: "Fetch a single URL, splitting the file if it exceeds the threshold",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mgr := buildManager()
			defer watchInterrupt(mgr)()
			display := output.NewDisplay(mgr.Active)
			display.Start()
			result := mgr.FetchAll(context.Background(), []download.Request{{URL: args[0], FileName: outputName}}, 1)
			display.Stop()
			reportItem(result.Items[0])
			if result.Successes == 0 {
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&outputName, "output", "o", "", "Output file name (inferred if not provided)")
	return cmd
}
