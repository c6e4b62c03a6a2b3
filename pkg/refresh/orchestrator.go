// Package refresh coordinates one-at-a-time synchronization of the local
// recording cache from the remote recording service.
package refresh

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

// RemoteSource fetches a user's recording rows from the remote service.
type RemoteSource interface {
	FetchUserRecordings(ctx context.Context, userID string) ([]recordings.RawDetail, error)
}

// Store persists recording rows keyed by event ID with insert-or-replace
// semantics.
type Store interface {
	Upsert(ctx context.Context, row recordings.RawDetail) error
}

// Orchestrator runs cache refreshes with a single process-wide busy gate:
// at most one refresh is in flight at a time, and a trigger that arrives
// while one is running is a no-op for that call.
type Orchestrator struct {
	source RemoteSource
	store  Store
	log    logging.Logger

	busy atomic.Bool

	// onComplete is invoked after every finished refresh, success or not,
	// so dependent queries can re-run against the freshly synced cache.
	onComplete func()
}

// NewOrchestrator creates an orchestrator over the given remote source and
// local store.
func NewOrchestrator(source RemoteSource, store Store, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Orchestrator{
		source: source,
		store:  store,
		log:    log.With(logging.F("component", "refresh")),
	}
}

// SetOnComplete registers a hook run after each refresh completes. It must
// be set before the first call to Refresh.
func (o *Orchestrator) SetOnComplete(fn func()) {
	o.onComplete = fn
}

// InProgress reports whether a refresh is currently running.
func (o *Orchestrator) InProgress() bool {
	return o.busy.Load()
}

// Refresh synchronizes the local cache with the remote service for the
// given user. It returns false without doing anything when the user
// identity is missing or another refresh is already in flight; the in-flight
// refresh is authoritative and its completion still triggers the dependent
// re-fetch.
//
// Fetch or per-row write failures are logged and never prevent the busy
// flag from clearing. There is no automatic retry.
func (o *Orchestrator) Refresh(ctx context.Context, userID string) bool {
	if userID == "" {
		o.log.Debug("refresh skipped, no user identity")
		return false
	}
	if !o.busy.CompareAndSwap(false, true) {
		o.log.Debug("refresh skipped, already in progress")
		return false
	}
	defer func() {
		o.busy.Store(false)
		if o.onComplete != nil {
			o.onComplete()
		}
	}()

	log := o.log.With(logging.F("run_id", uuid.NewString()), logging.F("user_id", userID))
	log.Debug("refresh started")

	rows, err := o.source.FetchUserRecordings(ctx, userID)
	if err != nil {
		runsTotal.WithLabelValues("fetch_error").Inc()
		log.Error("fetching user recordings failed", logging.Err(err))
		return true
	}

	written := 0
	for _, row := range rows {
		if row.EventID == "" {
			log.Warn("skipping recording without event id")
			continue
		}
		if err := o.store.Upsert(ctx, row); err != nil {
			log.Error("upserting recording failed",
				logging.F("event_id", row.EventID),
				logging.Err(err))
			continue
		}
		written++
	}

	runsTotal.WithLabelValues("ok").Inc()
	log.Info("refresh completed",
		logging.F("fetched", len(rows)),
		logging.F("written", written))
	return true
}
