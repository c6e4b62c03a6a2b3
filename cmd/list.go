package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallhq/recall-cli/client"
	"github.com/recallhq/recall-cli/config"
	"github.com/recallhq/recall-cli/pkg/cache"
	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
	"github.com/recallhq/recall-cli/pkg/refresh"
	"github.com/recallhq/recall-cli/pkg/store"
)

// recentListSize is the number of recordings shown without --all.
const recentListSize = 10

// List command flags.
var (
	listOutputFormat string
	listAll          bool
	listLimit        int
	listNoCache      bool
	listNoSync       bool
)

// newRecordingListCommand creates the 'recording list' subcommand.
func newRecordingListCommand(deps *RecordingCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		Long: `List meeting recordings in reverse chronological order.

By default the ten most recent recordings are shown. With --all the full
result set is shown grouped by date: meetings from today appear under
"Today", other meetings from the current month under "This Month", and
everything else under its own date.

Examples:
  # Ten most recent recordings
  recall recording list

  # Everything, grouped by date
  recall recording list --all

  # Output as JSON
  recall recording list -o json`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordingList(cmd.Context(), cmd.OutOrStdout(), deps)
		},
	}

	cmd.Flags().StringVarP(&listOutputFormat, "output", "o", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVarP(&listAll, "all", "a", false, "Show all recordings grouped by date")
	cmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Meetings requested per category (default from config)")
	cmd.Flags().BoolVar(&listNoCache, "no-cache", false, "Bypass the response cache")
	cmd.Flags().BoolVar(&listNoSync, "no-sync", false, "Skip the background local cache refresh")

	return cmd
}

// runRecordingList executes the recording list command.
func runRecordingList(ctx context.Context, out io.Writer, deps *RecordingCommandDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	outputFormat, err := resolveOutputFormat(cfg, listOutputFormat)
	if err != nil {
		return err
	}

	limit := cfg.ListLimit
	if listLimit > 0 {
		limit = listLimit
	}

	logger := newLogger(cfg)

	creds, err := activeCredentials()
	if err != nil {
		return err
	}

	api := newAPIClient(cfg, creds.Token, logger)
	var respCache *cache.ResponseCache
	if !listNoCache {
		respCache = newResponseCache(ctx, cfg, logger)
	}

	// Refresh the local cache in the background while the list renders,
	// the way the original screens re-synced on focus. The listing itself
	// never depends on it.
	var syncDone chan struct{}
	if !listNoSync {
		syncDone = startBackgroundRefresh(ctx, cfg, creds.UserID, api, respCache, logger)
	}
	defer func() {
		if syncDone != nil {
			<-syncDone
		}
	}()

	categorized, uncategorized, err := fetchCollections(ctx, api, respCache, creds.UserID, limit, logger)
	if err != nil {
		fmt.Fprintln(out, "Error fetching recordings. Please check your connection and try again.")
		return err
	}

	merged := recordings.MergeAndSort(categorized, uncategorized)
	merged = recordings.DedupByEventID(merged)

	if listAll {
		groups := recordings.BucketByDate(merged, time.Now())
		return renderGroups(out, outputFormat, groups)
	}

	return renderMeetings(out, outputFormat, recordings.Recent(merged, recentListSize))
}

// startBackgroundRefresh kicks off a local cache refresh concurrent with the
// list queries. Returns nil when the local cache database is unavailable;
// the list works without it. The returned channel closes when the refresh
// finishes.
func startBackgroundRefresh(ctx context.Context, cfg *config.CLIConfig, userID string, api *client.Client, respCache *cache.ResponseCache, logger logging.Logger) chan struct{} {
	if userID == "" {
		return nil
	}

	pool, err := connectLocalCache(ctx, cfg)
	if err != nil {
		logger.Debug("local cache unavailable, skipping background refresh", logging.Err(err))
		return nil
	}

	repo := store.NewRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("preparing local cache schema failed, skipping background refresh", logging.Err(err))
		pool.Close()
		return nil
	}

	orchestrator := refresh.NewOrchestrator(api, repo, logger)
	done := make(chan struct{})
	orchestrator.SetOnComplete(func() {
		if respCache != nil {
			respCache.Invalidate(ctx, userID)
		}
		pool.Close()
		close(done)
	})

	// Stderr so machine-readable output stays clean.
	fmt.Fprintln(os.Stderr, "Syncing local cache in the background...")
	go orchestrator.Refresh(ctx, userID)
	return done
}

// collectionFetcher fetches one category collection from the remote service.
type collectionFetcher func(ctx context.Context, limit int) ([]recordings.Category, error)

// recordingLister is the subset of the API client used by the list command.
type recordingLister interface {
	FetchCategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error)
	FetchUncategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error)
}

// fetchCollections runs both remote queries concurrently. Each query fails
// independently; a failed query contributes an empty collection, and an
// error is returned only when both fail.
func fetchCollections(ctx context.Context, api recordingLister, respCache *cache.ResponseCache, userID string, limit int, logger logging.Logger) ([]recordings.Category, []recordings.Category, error) {

	fetchCached := func(collection string, fetch collectionFetcher) ([]recordings.Category, error) {
		if respCache != nil {
			if categories, ok := respCache.Get(ctx, collection, userID, limit); ok {
				return categories, nil
			}
		}
		categories, err := fetch(ctx, limit)
		if err != nil {
			return nil, err
		}
		if respCache != nil {
			respCache.Set(ctx, collection, userID, limit, categories)
		}
		return categories, nil
	}

	var (
		wg            sync.WaitGroup
		categorized   []recordings.Category
		uncategorized []recordings.Category
		catErr        error
		uncatErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		categorized, catErr = fetchCached("categorized", api.FetchCategorizedMeetings)
	}()
	go func() {
		defer wg.Done()
		uncategorized, uncatErr = fetchCached("uncategorized", api.FetchUncategorizedMeetings)
	}()
	wg.Wait()

	if catErr != nil && uncatErr != nil {
		return nil, nil, fmt.Errorf("fetching recordings: %w", catErr)
	}
	if catErr != nil {
		logger.Warn("categorized query failed, showing partial results", logging.Err(catErr))
	}
	if uncatErr != nil {
		logger.Warn("uncategorized query failed, showing partial results", logging.Err(uncatErr))
	}

	return categorized, uncategorized, nil
}

// renderMeetings writes a flat meeting list in the requested format.
func renderMeetings(out io.Writer, format config.OutputFormat, meetings []recordings.Meeting) error {
	switch format {
	case config.OutputFormatJSON:
		return printJSON(out, meetings)
	case config.OutputFormatYAML:
		return printYAML(out, meetings)
	default:
		if len(meetings) == 0 {
			fmt.Fprintln(out, "No recordings found.")
			return nil
		}
		for _, m := range meetings {
			fmt.Fprintln(out, formatMeetingLine(m))
		}
		return nil
	}
}

// renderGroups writes date-bucketed meetings in the requested format.
func renderGroups(out io.Writer, format config.OutputFormat, groups []recordings.GroupedMeeting) error {
	switch format {
	case config.OutputFormatJSON:
		return printJSON(out, groups)
	case config.OutputFormatYAML:
		return printYAML(out, groups)
	default:
		if len(groups) == 0 {
			fmt.Fprintln(out, "No recordings found.")
			return nil
		}
		for i, g := range groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, g.Date)
			for _, m := range g.Meetings {
				fmt.Fprintf(out, "  %s\n", formatMeetingLine(m))
			}
		}
		return nil
	}
}

// formatMeetingLine renders one meeting as a single text row.
func formatMeetingLine(m recordings.Meeting) string {
	title := m.Title
	if title == "" {
		title = "(untitled)"
	}

	when := m.Date
	if t, err := time.Parse("2006-01-02", m.Date); err == nil {
		when = t.Format(recordings.DisplayDateFormat)
	}
	if m.StartTime != "" {
		when += " " + m.StartTime
	}

	return fmt.Sprintf("%-22s %s  %s", m.EventID, when, title)
}
