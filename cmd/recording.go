package cmd

import (
	"github.com/spf13/cobra"

	"github.com/recallhq/recall-cli/config"
)

// RecordingCommandDeps holds dependencies for recording commands.
type RecordingCommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
}

// DefaultRecordingDeps returns default dependencies for production use.
func DefaultRecordingDeps() *RecordingCommandDeps {
	return &RecordingCommandDeps{
		LoadConfig: config.LoadConfig,
	}
}

// NewRecordingCommand creates the root recording command with all subcommands.
func NewRecordingCommand(deps *RecordingCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultRecordingDeps()
	}

	cmd := &cobra.Command{
		Use:   "recording",
		Short: "Browse meeting recordings",
		Long: `Browse meeting recordings fetched from the recording service.

The list view merges categorized and uncategorized meetings into a single
reverse-chronological feed. The detail view reads from the local cache,
which is populated by 'recall sync'.

Examples:
  # Ten most recent recordings
  recall recording list

  # Full history grouped by date
  recall recording list --all

  # Detail for one recording
  recall recording view <event-id>

  # Output as JSON
  recall recording list -o json`,
		Aliases: []string{"recordings", "rec"},
	}

	cmd.AddCommand(newRecordingListCommand(deps))
	cmd.AddCommand(newRecordingViewCommand(deps))

	return cmd
}
