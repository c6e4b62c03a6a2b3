package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallhq/recall-cli/config"
	pkgerrors "github.com/recallhq/recall-cli/pkg/errors"
	"github.com/recallhq/recall-cli/pkg/recordings"
	"github.com/recallhq/recall-cli/pkg/store"
)

// View command flags.
var viewOutputFormat string

// newRecordingViewCommand creates the 'recording view' subcommand.
func newRecordingViewCommand(deps *RecordingCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <event-id>",
		Short: "Show recording detail",
		Long: `Show the full detail of one recording from the local cache.

The detail includes the summary, action points, topics, key takeaways,
suggested questions, and participants. Corrupt detail fields are shown as
empty rather than failing the whole view.

The local cache is populated by 'recall sync'; run that first if the
recording is missing.

Examples:
  recall recording view ev-20260810-standup
  recall recording view ev-20260810-standup -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordingView(cmd.Context(), cmd.OutOrStdout(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&viewOutputFormat, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// runRecordingView executes the recording view command.
func runRecordingView(ctx context.Context, out io.Writer, deps *RecordingCommandDeps, eventID string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	outputFormat, err := resolveOutputFormat(cfg, viewOutputFormat)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	pool, err := connectLocalCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := store.NewRepository(pool, logger)
	raw, err := repo.GetByEventID(ctx, eventID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return fmt.Errorf("no recording found for %q; run 'recall sync' to refresh the local cache", eventID)
		}
		return fmt.Errorf("reading recording: %w", err)
	}

	detail := recordings.NormalizeDetail(raw, logger)

	switch outputFormat {
	case config.OutputFormatJSON:
		return printJSON(out, detail)
	case config.OutputFormatYAML:
		return printYAML(out, detail)
	default:
		renderDetailText(out, detail)
		return nil
	}
}

// renderDetailText writes the human-readable detail view.
func renderDetailText(out io.Writer, d recordings.RecordingDetail) {
	subject := d.Subject
	if subject == "" {
		subject = "(untitled)"
	}
	fmt.Fprintln(out, subject)
	fmt.Fprintln(out, strings.Repeat("=", len(subject)))

	fmt.Fprintf(out, "Event ID: %s\n", d.EventID)
	fmt.Fprintf(out, "When:     %s\n", formatDetailWhen(d))
	if d.IsPublic {
		fmt.Fprintln(out, "Access:   public")
	} else {
		fmt.Fprintln(out, "Access:   private")
	}

	if d.ErrorMessage != "" {
		fmt.Fprintf(out, "\nProcessing error: %s\n", d.ErrorMessage)
	}

	if d.Summary != "" {
		fmt.Fprintf(out, "\nSummary\n-------\n%s\n", d.Summary)
	}

	if len(d.ActionPoints) > 0 {
		fmt.Fprintf(out, "\nAction Points\n-------------\n")
		for _, ap := range d.ActionPoints {
			fmt.Fprintf(out, "- %s\n", ap.ItemText)
		}
	}

	if len(d.Topics) > 0 {
		fmt.Fprintf(out, "\nTopics\n------\n")
		for _, topic := range d.Topics {
			if topic.Description != "" {
				fmt.Fprintf(out, "- %s: %s\n", topic.ItemText, topic.Description)
			} else {
				fmt.Fprintf(out, "- %s\n", topic.ItemText)
			}
		}
	}

	if len(d.KeyTakeaways) > 0 {
		fmt.Fprintf(out, "\nKey Takeaways\n-------------\n")
		for _, kt := range d.KeyTakeaways {
			fmt.Fprintf(out, "- %s\n", kt.ItemText)
		}
	}

	if len(d.Questions) > 0 {
		fmt.Fprintf(out, "\nSuggested Questions\n-------------------\n")
		for _, q := range d.Questions {
			fmt.Fprintf(out, "- %s\n", q.ItemText)
		}
	}

	fmt.Fprintf(out, "\nParticipants\n------------\n")
	if len(d.Participants) == 0 {
		fmt.Fprintln(out, "No participants")
	} else {
		for _, p := range d.Participants {
			fmt.Fprintf(out, "- %s\n", p.Name)
		}
	}
}

// formatDetailWhen builds the "when" line from the detail's date and times.
func formatDetailWhen(d recordings.RecordingDetail) string {
	when := d.Date
	if t, err := time.Parse("2006-01-02", d.Date); err == nil {
		when = t.Format(recordings.DisplayDateFormat)
	}
	if when == "" {
		when = "unknown"
	}
	if d.StartTime != "" {
		when += " " + d.StartTime
		if d.EndTime != "" {
			when += " - " + d.EndTime
		}
	}
	return when
}
