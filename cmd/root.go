package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parcel/internal/config"
	"parcel/internal/download"
	"parcel/internal/output"
	"parcel/internal/progress"
	"parcel/internal/utils"
)

var (
	cfgFile     string
	downloadDir string
	splitDir    string
	threshold   int64
	partSize    int64
	workers     int
	timeout     time.Duration
	kaTimeout   time.Duration
	userAgent   string
	proxyURL    string
	headers     []string
	debug       bool

	settings *config.Settings
)

var ParcelVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "parcel",
	Short:   "Parcel fetches remote files and splits oversized ones into delivery-sized parts",
	Version: ParcelVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.InitLogger(debug)
		var err error
		settings, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("download-dir") {
			settings.DownloadDir = downloadDir
		}
		if cmd.Flags().Changed("split-dir") {
			settings.SplitDir = splitDir
		}
		if cmd.Flags().Changed("split-threshold") {
			settings.SplitThreshold = threshold
		}
		if cmd.Flags().Changed("part-size") {
			settings.PartSize = partSize
		}
		if cmd.Flags().Changed("workers") {
			settings.Workers = workers
		}
		return settings.Validate()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "parcel.yaml", "Path to settings file")
	rootCmd.PersistentFlags().StringVarP(&downloadDir, "download-dir", "d", "", "Directory for downloaded files")
	rootCmd.PersistentFlags().StringVarP(&splitDir, "split-dir", "s", "", "Directory for split parts")
	rootCmd.PersistentFlags().Int64Var(&threshold, "split-threshold", utils.SplitThreshold, "File size above which downloads are split (bytes)")
	rootCmd.PersistentFlags().Int64Var(&partSize, "part-size", utils.DefaultPartSize, "Maximum size of a split part (bytes)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 4, "Number of transfers to run in parallel")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newPurgeCmd())
}

func buildManager() *download.Manager {
	userAgentValue := settings.UserAgent
	if rootCmd.PersistentFlags().Changed("user-agent") {
		userAgentValue = userAgent
	}
	proxyValue := settings.ProxyURL
	if proxyURL != "" {
		proxyValue = proxyURL
	}
	cfg := download.Config{
		DownloadDir:    settings.DownloadDir,
		SplitDir:       settings.SplitDir,
		SplitThreshold: settings.SplitThreshold,
		PartSize:       settings.PartSize,
		HTTP: utils.HTTPClientConfig{
			Timeout:   timeout,
			KATimeout: kaTimeout,
			UserAgent: userAgentValue,
			ProxyURL:  proxyValue,
			Headers:   utils.ParseHeaderArgs(headers),
		},
	}
	return download.NewManager(progress.NewStore(), cfg)
}

// watchInterrupt stops all in-flight transfers on SIGINT/SIGTERM; the
// download loops observe the stop on their next chunk and clean up.
func watchInterrupt(mgr *download.Manager) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			stopped := mgr.CancelAll()
			output.PrintWarning(fmt.Sprintf("Stop requested for %d transfer(s)", stopped))
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

func reportItem(item download.Item) {
	if item.Failed() {
		output.PrintError(fmt.Sprintf("%s %s: %v", output.StyleSymbols["fail"], item.URL, item.Err))
		return
	}
	res := item.Result
	output.PrintSuccess(fmt.Sprintf("%s %s (%s)", output.StyleSymbols["pass"], res.FileName, utils.FormatBytes(uint64(res.FileSize))))
	if item.Err != nil {
		output.PrintWarning(fmt.Sprintf("  split failed: %v", item.Err))
	}
	for _, part := range item.Parts {
		output.PrintDetail(fmt.Sprintf("  part %d %s %s", part.Index, output.StyleSymbols["arrow"], part.Path))
	}
}
