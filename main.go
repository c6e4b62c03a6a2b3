// Package main provides the recall CLI entry point.
// recall is the command-line interface for browsing meeting recordings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallhq/recall-cli/cmd"
	"github.com/recallhq/recall-cli/config"
	"github.com/recallhq/recall-cli/pkg/buildinfo"
)

// Global flags.
var (
	serverAddr   string
	timeout      time.Duration
	outputFormat string
	debug        bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Recall CLI - meeting recording browser",
	Long: `recall is the command-line interface for the Recall meeting recording
service.

It fetches your categorized and uncategorized meetings, merges them into a
single reverse-chronological feed, and keeps a local cache of recording
detail for offline viewing.

COMMON WORKFLOWS:
  Authenticate:     recall auth login
  Browse:           recall recording list  |  recall recording list --all
  Inspect one:      recall recording view <event-id>
  Refresh cache:    recall sync

DISCOVERY:
  recall <command> --help    Subcommands, flags, and examples`,
}

// loadConfigWithFlags loads configuration and overlays the persistent
// command-line flags, which take precedence over file and environment.
func loadConfigWithFlags() (*config.CLIConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if serverAddr != "" {
		cfg.ServerAddress = serverAddr
	}
	if timeout != 0 {
		cfg.Timeout = timeout
	}
	if outputFormat != "" {
		format := config.OutputFormat(outputFormat)
		if !format.IsValid() {
			return nil, fmt.Errorf("invalid output format: %s", outputFormat)
		}
		cfg.OutputFormat = format
	}
	if debug {
		cfg.Debug = true
	}

	return cfg, nil
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the recall CLI.

Examples:
  recall version`,
	Run: func(c *cobra.Command, args []string) {
		info := buildinfo.Get()
		fmt.Printf("recall %s\n", buildinfo.String())
		fmt.Printf("go: %s\n", info.GoVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "Recording service address (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd.AuthCmd)
	rootCmd.AddCommand(cmd.NewRecordingCommand(&cmd.RecordingCommandDeps{
		LoadConfig: loadConfigWithFlags,
	}))
	rootCmd.AddCommand(cmd.NewSyncCommand(&cmd.SyncCommandDeps{
		LoadConfig: loadConfigWithFlags,
	}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
