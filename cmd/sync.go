package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/recallhq/recall-cli/config"
	"github.com/recallhq/recall-cli/pkg/refresh"
	"github.com/recallhq/recall-cli/pkg/store"
)

// Sync command flags.
var syncShowStats bool

// SyncCommandDeps holds dependencies for the sync command.
type SyncCommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
}

// DefaultSyncDeps returns default dependencies for production use.
func DefaultSyncDeps() *SyncCommandDeps {
	return &SyncCommandDeps{
		LoadConfig: config.LoadConfig,
	}
}

// NewSyncCommand creates the 'sync' command.
func NewSyncCommand(deps *SyncCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultSyncDeps()
	}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local recording cache",
		Long: `Fetch the authenticated user's recordings from the service and write
them into the local cache, one upsert per recording keyed by event ID.

At most one refresh runs at a time. A refresh that fails partway leaves
previously cached recordings intact.

Examples:
  recall sync`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), cmd.OutOrStdout(), deps)
		},
	}

	cmd.Flags().BoolVar(&syncShowStats, "stats", false, "Print cache statistics after the sync")

	return cmd
}

// runSync executes the sync command.
func runSync(ctx context.Context, out io.Writer, deps *SyncCommandDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	deps.Config = cfg

	logger := newLogger(cfg)

	creds, err := activeCredentials()
	if err != nil {
		return err
	}
	if creds.UserID == "" {
		fmt.Fprintln(out, "No user identity stored; nothing to sync.")
		return nil
	}

	pool, err := connectLocalCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := store.NewRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("preparing local cache schema: %w", err)
	}

	api := newAPIClient(cfg, creds.Token, logger)

	orchestrator := refresh.NewOrchestrator(api, repo, logger)
	orchestrator.SetOnComplete(func() {
		// Cached list responses are stale once the local cache changes.
		if respCache := newResponseCache(ctx, cfg, logger); respCache != nil {
			respCache.Invalidate(ctx, creds.UserID)
		}
	})

	fmt.Fprintln(out, "Syncing recordings...")
	if !orchestrator.Refresh(ctx, creds.UserID) {
		fmt.Fprintln(out, "A sync is already in progress.")
		return nil
	}

	fmt.Fprintln(out, "Sync complete.")

	if syncShowStats {
		// Registering twice (e.g. in tests) is not an error worth surfacing.
		_ = prometheus.DefaultRegisterer.Register(store.NewPoolStatsCollector(pool))
		printCacheStats(out)
	}

	return nil
}

// printCacheStats dumps the recall metric families from the default
// registry in a plain name{labels} value form.
func printCacheStats(out io.Writer) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return
	}

	fmt.Fprintln(out, "\nCache statistics:")
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "recall_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "  %s %v\n", name, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(out, "  %s %v\n", name, m.GetGauge().GetValue())
			}
		}
	}
}
