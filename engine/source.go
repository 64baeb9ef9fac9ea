/*
source.go - Persistence interfaces between the engine and its callers

PURPOSE:
  Defines how snapshot inputs are fetched and where daily summaries are
  cached. The engine itself performs no I/O; these interfaces are implemented
  by the SQLite store (production) and the memory store (tests/dev).

CONSISTENT READS:
  LoadSnapshot must return a single point-in-time view of all records for
  the requested team and window. A concurrent mutation (say, an exemption
  approved mid-computation) must never produce a half-updated snapshot;
  implementations load everything inside one read transaction.

CACHE CONTRACT:
  SummaryCache holds DailySummary rows, which are pure projections. Any row
  may be deleted at any time and regenerated from LoadSnapshot + the engine.
  Readers must route cache hits and cache misses through the same aggregator
  so both paths produce identical numbers.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production store
  - engine/store/memory.go: in-memory for tests and the dev server

SEE ALSO:
  - snapshot.go: what LoadSnapshot feeds
  - api/recompute.go: the background worker writing through SummaryCache
*/
package engine

import "context"

// =============================================================================
// SOURCE - Snapshot input fetching
// =============================================================================

// Source fetches the raw inputs the engine computes over.
type Source interface {
	// LoadSnapshot returns all records for the team covering [period.Start,
	// period.End] in one consistent read: roster, check-ins, approved and
	// pending exemptions, holidays, and the team/org configuration.
	LoadSnapshot(ctx context.Context, teamID TeamID, period Period) (*SnapshotInput, error)

	// Teams lists the organization's teams (active first, by name).
	Teams(ctx context.Context, orgID OrgID) ([]Team, error)

	// Organization returns the organization record.
	Organization(ctx context.Context, orgID OrgID) (*Organization, error)
}

// =============================================================================
// SUMMARY CACHE - Materialized daily summaries
// =============================================================================

// SummaryCache persists DailySummary rows. The cache is derived data only:
// implementations must support unconditional overwrite (latest write wins)
// and full deletion per team+period.
type SummaryCache interface {
	// SaveSummaries upserts the given rows, overwriting any existing row for
	// the same team+date.
	SaveSummaries(ctx context.Context, summaries []DailySummary) error

	// LoadSummaries returns cached rows for the team within the period,
	// ordered by date. Missing days are simply absent.
	LoadSummaries(ctx context.Context, teamID TeamID, period Period) ([]DailySummary, error)

	// DeleteSummaries drops all cached rows for the team within the period.
	DeleteSummaries(ctx context.Context, teamID TeamID, period Period) error
}
