/*
recompute.go - Background daily summary recomputation

PURPOSE:
  Keeps the daily_summaries cache fresh after roster, check-in, exemption, or
  holiday changes. Handlers call Trigger with a team and period; the worker
  coalesces triggers per team and recomputes the affected window off the
  request path.

DESIGN:
  - One goroutine drains a pending map; latest trigger per team wins
  - Recompute failures are logged and dropped. The cache is a projection of
    the record tables, so the next trigger rebuilds the same rows
  - Reads never depend on the worker. Live report paths always compute from
    records; the cache serves dashboard list views

SEE ALSO:
  - handlers.go: Trigger call sites
  - engine/daily.go: ComputeDailySummaries
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/wellness-engine/engine"
)

// recomputeTimeout bounds one team's rebuild.
const recomputeTimeout = 30 * time.Second

// SnapshotLoader is the slice of the store the worker reads from.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, teamID engine.TeamID, period engine.Period) (*engine.SnapshotInput, error)
}

// Recomputer rebuilds cached daily summaries in the background.
type Recomputer struct {
	loader SnapshotLoader
	cache  engine.SummaryCache
	log    *logrus.Logger

	mu      sync.Mutex
	pending map[engine.TeamID]engine.Period
	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewRecomputer creates a recomputer. Call Start to begin processing.
func NewRecomputer(loader SnapshotLoader, cache engine.SummaryCache, log *logrus.Logger) *Recomputer {
	return &Recomputer{
		loader:  loader,
		cache:   cache,
		log:     log,
		pending: make(map[engine.TeamID]engine.Period),
		wake:    make(chan struct{}, 1),
	}
}

// Start launches the worker goroutine. A stopped recomputer can be started
// again; each Start gets a fresh stop channel.
func (rc *Recomputer) Start() {
	rc.mu.Lock()
	if rc.started {
		rc.mu.Unlock()
		return
	}
	rc.started = true
	rc.done = make(chan struct{})
	done := rc.done
	rc.mu.Unlock()

	rc.wg.Add(1)
	go rc.run(done)
}

// Stop drains the worker and waits for it to exit.
func (rc *Recomputer) Stop() {
	rc.mu.Lock()
	if !rc.started {
		rc.mu.Unlock()
		return
	}
	rc.started = false
	done := rc.done
	rc.mu.Unlock()

	close(done)
	rc.wg.Wait()
}

// Trigger schedules a recompute for the team over the given period. A second
// trigger for the same team before the worker runs replaces the first.
func (rc *Recomputer) Trigger(teamID engine.TeamID, period engine.Period) {
	rc.mu.Lock()
	rc.pending[teamID] = period
	rc.mu.Unlock()

	select {
	case rc.wake <- struct{}{}:
	default:
	}
}

func (rc *Recomputer) run(done <-chan struct{}) {
	defer rc.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-rc.wake:
			rc.drain()
		}
	}
}

func (rc *Recomputer) drain() {
	for {
		rc.mu.Lock()
		var (
			teamID engine.TeamID
			period engine.Period
			found  bool
		)
		for id, p := range rc.pending {
			teamID, period, found = id, p, true
			break
		}
		if found {
			delete(rc.pending, teamID)
		}
		rc.mu.Unlock()

		if !found {
			return
		}
		if err := rc.recompute(teamID, period); err != nil {
			rc.log.WithFields(logrus.Fields{
				"team":   teamID,
				"period": period.String(),
			}).Warnf("summary recompute failed: %v", err)
		}
	}
}

func (rc *Recomputer) recompute(teamID engine.TeamID, period engine.Period) error {
	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	input, err := rc.loader.LoadSnapshot(ctx, teamID, period)
	if err != nil {
		return err
	}
	snap := engine.BuildSnapshot(*input)
	summaries := engine.ComputeDailySummaries(snap, period)
	return rc.cache.SaveSummaries(ctx, summaries)
}
