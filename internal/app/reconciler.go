package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"quotevault/internal/domain"
	"quotevault/internal/ports"
)

// SyncState identifies the reconciler's position in a sync cycle.
type SyncState string

const (
	SyncStateIdle     SyncState = "idle"
	SyncStatePushing  SyncState = "pushing"
	SyncStateFetching SyncState = "fetching"
	SyncStateMerging  SyncState = "merging"
	SyncStateDone     SyncState = "done"
	SyncStateFailed   SyncState = "failed"
)

// SyncStatus is a snapshot of the reconciler's state and the outcome
// of the most recent cycle.
type SyncStatus struct {
	State       SyncState  `json:"state"`
	LastSyncAt  *time.Time `json:"lastSyncAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	Pushed      int        `json:"pushed"`
	Fetched     int        `json:"fetched"`
	Added       int        `json:"added"`
	Overwritten int        `json:"overwritten"`
	Conflicts   int        `json:"conflicts"`
}

// Reconciler synchronizes the local collection against the remote
// resource. A cycle runs three phases in order: push local-only quotes
// up, fetch a remote snapshot, then merge it in with server-wins
// conflict handling. At most one cycle runs at a time.
type Reconciler struct {
	store  *Store
	remote ports.RemoteQuotes
	logger *slog.Logger

	fetchLimit      int
	pushConcurrency int
	interval        time.Duration
	startupDelay    time.Duration
	cycleTimeout    time.Duration

	inFlight atomic.Bool

	mu        sync.Mutex
	status    SyncStatus
	conflicts map[string]domain.Conflict
}

// ReconcilerConfig contains configuration for the reconciler.
type ReconcilerConfig struct {
	Store  *Store
	Remote ports.RemoteQuotes
	Logger *slog.Logger

	// FetchLimit bounds how many quotes a cycle pulls from the remote.
	FetchLimit int

	// PushConcurrency bounds parallel push requests within a cycle.
	PushConcurrency int

	// Interval between periodic cycles driven by Run.
	Interval time.Duration

	// StartupDelay before Run's first cycle, giving the HTTP server a
	// head start.
	StartupDelay time.Duration

	// CycleTimeout bounds a single cycle end to end.
	CycleTimeout time.Duration
}

// NewReconciler creates a new reconciler with the provided dependencies.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	pushConcurrency := cfg.PushConcurrency
	if pushConcurrency <= 0 {
		pushConcurrency = 4
	}

	cycleTimeout := cfg.CycleTimeout
	if cycleTimeout <= 0 {
		cycleTimeout = 30 * time.Second
	}

	return &Reconciler{
		store:           cfg.Store,
		remote:          cfg.Remote,
		logger:          cfg.Logger,
		fetchLimit:      cfg.FetchLimit,
		pushConcurrency: pushConcurrency,
		interval:        cfg.Interval,
		startupDelay:    cfg.StartupDelay,
		cycleTimeout:    cycleTimeout,
		status:          SyncStatus{State: SyncStateIdle},
		conflicts:       make(map[string]domain.Conflict),
	}
}

// Run drives periodic cycles until ctx is canceled. Cycle failures are
// logged and the loop keeps going; the next tick retries.
func (r *Reconciler) Run(ctx context.Context) {
	if r.startupDelay > 0 {
		select {
		case <-time.After(r.startupDelay):
		case <-ctx.Done():
			return
		}
	}

	r.runCycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.runCycle(ctx)
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "reconciler stopped")

			return
		}
	}
}

func (r *Reconciler) runCycle(ctx context.Context) {
	if _, err := r.Sync(ctx); err != nil && ctx.Err() == nil {
		r.logger.ErrorContext(ctx, "periodic sync cycle failed",
			slog.Any("error", err),
		)
	}
}

// Sync runs one full cycle and returns the resulting status. Returns
// domain.ErrSyncBusy when a cycle is already in flight.
func (r *Reconciler) Sync(ctx context.Context) (SyncStatus, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return r.Status(), domain.ErrSyncBusy
	}
	defer r.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, r.cycleTimeout)
	defer cancel()

	r.logger.InfoContext(ctx, "sync cycle started")

	pushed, err := r.push(ctx)
	if err != nil {
		return r.fail(ctx, err)
	}

	r.setState(SyncStateFetching)

	fetched, err := r.remote.Fetch(ctx, r.fetchLimit)
	if err != nil {
		return r.fail(ctx, err)
	}

	added, overwritten, err := r.merge(ctx, fetched)
	if err != nil {
		return r.fail(ctx, err)
	}

	now := time.Now().UTC()

	r.mu.Lock()
	r.status = SyncStatus{
		State:       SyncStateDone,
		LastSyncAt:  &now,
		Pushed:      pushed,
		Fetched:     len(fetched),
		Added:       added,
		Overwritten: overwritten,
		Conflicts:   len(r.conflicts),
	}
	status := r.status
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "sync cycle finished",
		slog.Int("pushed", pushed),
		slog.Int("fetched", len(fetched)),
		slog.Int("added", added),
		slog.Int("overwritten", overwritten),
	)

	return status, nil
}

// push uploads quotes that have never been synced and records the
// identifiers the remote assigns. Individual push failures are
// tolerated; the failed quotes simply stay local until the next cycle.
func (r *Reconciler) push(ctx context.Context) (int, error) {
	r.setState(SyncStatePushing)

	var pending []domain.Quote

	for _, q := range r.store.List(ctx) {
		if !q.Synced() {
			pending = append(pending, q)
		}
	}

	if len(pending) == 0 {
		return 0, nil
	}

	fns := make([]func(context.Context) (string, error), len(pending))
	for i, q := range pending {
		quote := q
		fns[i] = func(ctx context.Context) (string, error) {
			return r.remote.Push(ctx, quote)
		}
	}

	results := ParallelPartialLimit(ctx, r.pushConcurrency, fns...)

	type assignment struct {
		quote domain.Quote
		id    string
		done  bool
	}

	var assignments []assignment

	for i, res := range results {
		if res.Err != nil {
			r.logger.WarnContext(ctx, "quote push failed",
				slog.String("category", pending[i].Category),
				slog.Any("error", res.Err),
			)

			continue
		}

		assignments = append(assignments, assignment{quote: pending[i], id: res.Value})
	}

	if len(assignments) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()

	// Write back by content rather than position: the collection may
	// have grown while the pushes were in flight, and quotes added in
	// the meantime must survive untouched.
	err := r.store.Mutate(ctx, func(quotes []domain.Quote) []domain.Quote {
		for i := range quotes {
			if quotes[i].Synced() {
				continue
			}

			for j := range assignments {
				if assignments[j].done || !quotes[i].ContentEquals(assignments[j].quote) {
					continue
				}

				quotes[i].ID = assignments[j].id
				quotes[i].UpdatedAt = now
				assignments[j].done = true

				break
			}
		}

		return quotes
	})
	if err != nil {
		return 0, err
	}

	return len(assignments), nil
}

// merge folds the fetched snapshot into the local collection, keyed by
// identifier. Unknown quotes are appended; known quotes whose content
// differs are overwritten with the server version and recorded as
// conflicts so the user can restore the local text afterwards.
func (r *Reconciler) merge(ctx context.Context, fetched []domain.Quote) (added, overwritten int, err error) {
	r.setState(SyncStateMerging)

	now := time.Now().UTC()

	var detected []domain.Conflict

	// The whole merge runs under the store lock so quotes added while
	// the fetch was in flight are part of the collection it folds into.
	err = r.store.Mutate(ctx, func(quotes []domain.Quote) []domain.Quote {
		index := make(map[string]int, len(quotes))
		for i, q := range quotes {
			if q.ID != "" {
				index[q.ID] = i
			}
		}

		for _, remote := range fetched {
			i, ok := index[remote.ID]
			if !ok {
				quotes = append(quotes, remote)
				added++

				continue
			}

			local := quotes[i]
			if local.ContentEquals(remote) {
				continue
			}

			detected = append(detected, domain.Conflict{
				ID:         remote.ID,
				Local:      local,
				Server:     remote,
				DetectedAt: now,
			})

			quotes[i] = remote
			overwritten++
		}

		if added == 0 && overwritten == 0 {
			return nil
		}

		return quotes
	})
	if err != nil {
		return 0, 0, err
	}

	r.mu.Lock()
	for _, c := range detected {
		r.conflicts[c.ID] = c
	}
	r.mu.Unlock()

	return added, overwritten, nil
}

// Status returns a snapshot of the reconciler's current status.
func (r *Reconciler) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.status
	status.Conflicts = len(r.conflicts)

	return status
}

// Conflicts returns the unresolved conflicts, ordered by identifier.
func (r *Reconciler) Conflicts() []domain.Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()

	conflicts := make([]domain.Conflict, 0, len(r.conflicts))
	for _, c := range r.conflicts {
		conflicts = append(conflicts, c)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].ID < conflicts[j].ID
	})

	return conflicts
}

// Resolve applies a manual decision to a recorded conflict. Keeping
// the server version is a no-op beyond clearing the record, since the
// merge already applied it. Keeping the local version restores the
// local content under the server-assigned identifier.
func (r *Reconciler) Resolve(ctx context.Context, id, keep string) error {
	if !domain.ValidResolution(keep) {
		return domain.NewValidationError("keep", `must be "local" or "server"`)
	}

	r.mu.Lock()
	conflict, ok := r.conflicts[id]
	r.mu.Unlock()

	if !ok {
		return domain.NewNotFoundError("conflict", id)
	}

	if keep == domain.KeepLocal {
		if err := r.restoreLocal(ctx, conflict); err != nil {
			return err
		}
	}

	r.mu.Lock()
	delete(r.conflicts, id)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "conflict resolved",
		slog.String("id", id),
		slog.String("keep", keep),
	)

	return nil
}

func (r *Reconciler) restoreLocal(ctx context.Context, conflict domain.Conflict) error {
	found := false

	err := r.store.Mutate(ctx, func(quotes []domain.Quote) []domain.Quote {
		for i, q := range quotes {
			if q.ID != conflict.ID {
				continue
			}

			restored := conflict.Local
			restored.ID = conflict.ID
			restored.UpdatedAt = time.Now().UTC()
			restored.Source = domain.SourceLocal
			quotes[i] = restored
			found = true

			return quotes
		}

		return nil
	})
	if err != nil {
		return err
	}

	if !found {
		return domain.NewNotFoundError("quote", conflict.ID)
	}

	return nil
}

func (r *Reconciler) setState(state SyncState) {
	r.mu.Lock()
	r.status.State = state
	r.mu.Unlock()
}

func (r *Reconciler) fail(ctx context.Context, err error) (SyncStatus, error) {
	r.mu.Lock()
	r.status.State = SyncStateFailed
	r.status.LastError = err.Error()
	status := r.status
	r.mu.Unlock()

	r.logger.ErrorContext(ctx, "sync cycle failed",
		slog.Any("error", err),
	)

	return status, err
}
