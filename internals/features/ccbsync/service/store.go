package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"circleops_backend/internals/features/ccbsync/model"
	leaderModel "circleops_backend/internals/features/circles/leaders/model"
)

// LeaderFilter scopes a leader load: optionally one leader, optionally only
// leaders whose event-id cache has never been written (discovery runs).
type LeaderFilter struct {
	LeaderID         *uuid.UUID
	OnlyUndiscovered bool
}

// Store is the relational persistence boundary of the sync engine: filtered
// select, upsert-with-conflict-target, delete-by-key. The production backing
// is Postgres via gorm; tests plug a fake in.
type Store interface {
	ActiveLeaders(ctx context.Context, f LeaderFilter) ([]leaderModel.CircleLeaderModel, error)

	// SaveLeaderEventIDs writes the discovery cache back. An empty ids slice
	// is stored as an empty array, not NULL — "discovered, found nothing" is
	// distinct from "never discovered".
	SaveLeaderEventIDs(ctx context.Context, leaderID uuid.UUID, eventIDs []string) error

	// UpsertOccurrence inserts or overwrites the (leader, meeting date) row
	// and returns the row's id.
	UpsertOccurrence(ctx context.Context, rec *model.CircleOccurrenceModel) (uuid.UUID, error)

	// ReplaceAttendees swaps the full roster of one occurrence.
	ReplaceAttendees(ctx context.Context, occurrenceID uuid.UUID, attendees []model.CircleAttendeeModel) error

	// UpsertRosterEntries additively refreshes the per-leader member cache.
	UpsertRosterEntries(ctx context.Context, entries []model.CircleRosterEntryModel) error

	OccurrencesForLeader(ctx context.Context, leaderID uuid.UUID, from, to time.Time) ([]model.CircleOccurrenceModel, error)
}
