package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"circleops_backend/internals/features/ccbsync/client"
	"circleops_backend/internals/features/ccbsync/dto"
	"circleops_backend/internals/features/ccbsync/expand"
	"circleops_backend/internals/features/ccbsync/fetch"
	"circleops_backend/internals/features/ccbsync/model"
	"circleops_backend/internals/features/ccbsync/reconcile"
	leaderModel "circleops_backend/internals/features/circles/leaders/model"
)

// Sync modes and their trailing windows.
const (
	ModeDaily    = "daily"
	ModeBackfill = "backfill"

	dailyWindowDays    = 14
	backfillWindowDays = 180

	// Discovery serializes its per-leader listing calls with this delay;
	// CCB's rate limiter counts them even when the responses are cached
	// upstream, so the throttle is a correctness requirement.
	discoveryThrottle = 2 * time.Second
)

type SyncOptions struct {
	Mode     string
	LeaderID *uuid.UUID
}

type DiscoverOptions struct {
	Force    bool
	LeaderID *uuid.UUID
}

// SyncService is the batch orchestrator: discovery, bulk attendance fetch,
// per-leader reconciliation, idempotent persistence. One run is sequential
// per leader; cross-invocation safety comes from the store's upserts.
type SyncService struct {
	Store    Store
	API      fetch.API
	Fetcher  *fetch.Fetcher
	Expander expand.Expander

	Now   func() time.Time
	sleep func(time.Duration)
}

// NewSyncService wires the CCB client from the environment. Returns the
// client's ConfigError when no usable endpoint or credentials exist.
func NewSyncService(db *gorm.DB) (*SyncService, error) {
	c, err := client.New(client.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	return &SyncService{
		Store:    NewGormStore(db),
		API:      c,
		Fetcher:  fetch.NewFetcher(c),
		Expander: expand.Expander{LinkBase: c.LinkBase()},
		Now:      time.Now,
		sleep:    time.Sleep,
	}, nil
}

// Sync runs one attendance synchronization pass over the mode's trailing
// window. It always returns a summary — partial failure lives in the
// counters, and only a completely empty event-id cache aborts the run.
func (s *SyncService) Sync(ctx context.Context, opts SyncOptions) dto.SyncResult {
	now := s.Now()
	days := dailyWindowDays
	if opts.Mode == ModeBackfill {
		days = backfillWindowDays
	}
	end := dateOnly(now)
	start := end.AddDate(0, 0, -days)

	res := dto.SyncResult{
		DateRange: fmt.Sprintf("%s..%s", start.Format("2006-01-02"), end.Format("2006-01-02")),
	}

	leaders, err := s.Store.ActiveLeaders(ctx, LeaderFilter{LeaderID: opts.LeaderID})
	if err != nil {
		res.Errors++
		res.Warning = "failed to load leaders: " + err.Error()
		return res
	}
	res.LeadersProcessed = len(leaders)

	eventIDs := make(map[string]struct{})
	for _, l := range leaders {
		if l.CircleLeaderEventIDs == nil {
			res.MissingEventIDs++
			continue
		}
		for _, id := range l.CircleLeaderEventIDs {
			eventIDs[id] = struct{}{}
		}
	}
	if len(eventIDs) == 0 {
		res.Warning = "no cached event ids across all leaders — run discovery first"
		log.Printf("[SYNC] ⚠️ %s", res.Warning)
		return res
	}

	// One bulk call covers the whole window for every leader.
	byEvent, err := s.Fetcher.FetchRange(ctx, start, end, true)
	if err != nil {
		res.Errors++
		res.Warning = "bulk attendance fetch failed: " + err.Error()
		logClientError("SYNC", err)
		return res
	}
	for _, rows := range byEvent {
		res.CCBEventsTotal += len(rows)
	}

	for i := range leaders {
		// A NULL cache means discovery never ran for this leader; without it
		// no attendance can be matched, so reconciling would only fabricate
		// no_record rows. Counted above, skipped here.
		if leaders[i].CircleLeaderEventIDs == nil {
			continue
		}
		if err := s.syncLeader(ctx, &leaders[i], byEvent, start, end, now, &res); err != nil {
			res.Errors++
			log.Printf("[SYNC] leader %s failed: %v", leaders[i].CircleLeaderName, err)
		}
	}

	log.Printf("[SYNC] done %s: synced=%d errors=%d no_record=%d leaders=%d/%d",
		res.DateRange, res.Synced, res.Errors, res.NoRecordFilled, res.LeadersWithData, res.LeadersProcessed)
	return res
}

// syncLeader reconciles and persists one leader. A per-occurrence failure
// counts and moves on; a panic is converted into the leader's error.
func (s *SyncService) syncLeader(ctx context.Context, leader *leaderModel.CircleLeaderModel, byEvent map[string][]dto.LinkRow, start, end, now time.Time, res *dto.SyncResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var rows []dto.LinkRow
	for _, id := range leader.CircleLeaderEventIDs {
		rows = append(rows, byEvent[id]...)
	}
	if len(rows) > 0 {
		res.LeadersWithData++
	}

	sched := reconcile.Schedule{
		MeetingDay: leader.CircleLeaderMeetingDay,
		Frequency:  leader.CircleLeaderFrequency,
		Anchor:     leader.CircleLeaderMeetingStartDate,
	}

	for _, outcome := range reconcile.Reconcile(sched, rows, start, end, now) {
		rec, attendees := buildRecords(leader.CircleLeaderID, outcome, now)

		occurrenceID, upsertErr := s.Store.UpsertOccurrence(ctx, rec)
		if upsertErr != nil {
			res.Errors++
			log.Printf("[SYNC] upsert %s / %s failed: %v", leader.CircleLeaderName, outcome.Date.Format("2006-01-02"), upsertErr)
			continue
		}
		res.Synced++
		if outcome.Status == reconcile.StatusNoRecord {
			res.NoRecordFilled++
		}

		if len(attendees) > 0 {
			if replaceErr := s.Store.ReplaceAttendees(ctx, occurrenceID, attendees); replaceErr != nil {
				res.Errors++
				log.Printf("[SYNC] attendee replace %s / %s failed: %v", leader.CircleLeaderName, outcome.Date.Format("2006-01-02"), replaceErr)
			}
		}
	}

	// Roster refresh never fails the leader's attendance sync.
	if rosterErr := s.refreshRoster(ctx, leader, now); rosterErr != nil {
		res.RosterErrors++
		log.Printf("[SYNC] roster refresh for %s failed: %v", leader.CircleLeaderName, rosterErr)
	} else {
		res.RosterRefreshed++
	}

	return nil
}

// refreshRoster re-fetches group membership and additively upserts the cache.
func (s *SyncService) refreshRoster(ctx context.Context, leader *leaderModel.CircleLeaderModel, now time.Time) error {
	doc, err := s.API.Request(ctx, map[string]string{
		"srv": "group_participants",
		"id":  leader.CircleLeaderGroupID,
	})
	if err != nil {
		return err
	}

	var entries []model.CircleRosterEntryModel
	for _, node := range participantNodes(doc) {
		individualID := participantID(node)
		if individualID == "" {
			continue
		}
		entries = append(entries, model.CircleRosterEntryModel{
			CircleRosterEntryLeaderID:     leader.CircleLeaderID,
			CircleRosterEntryIndividualID: individualID,
			CircleRosterEntryName:         participantName(node),
			CircleRosterEntryEmail:        participantField(node, "email"),
			CircleRosterEntryPhone:        participantField(node, "phone"),
			CircleRosterEntryFetchedAt:    now,
		})
	}
	// Additive only: nothing to add is fine, and nothing is ever removed.
	return s.Store.UpsertRosterEntries(ctx, entries)
}

func buildRecords(leaderID uuid.UUID, o reconcile.Outcome, now time.Time) (*model.CircleOccurrenceModel, []model.CircleAttendeeModel) {
	rec := &model.CircleOccurrenceModel{
		CircleOccurrenceLeaderID:    leaderID,
		CircleOccurrenceMeetingDate: o.Date,
		CircleOccurrenceStatus:      o.Status,
		CircleOccurrenceSource:      "ccb",
		CircleOccurrenceSyncedAt:    now,
	}

	if o.EventID != "" {
		eventID := o.EventID
		rec.CircleOccurrenceEventID = &eventID
	}
	if o.Status != reconcile.StatusNoRecord {
		rec.CircleOccurrenceHeadcount = o.HeadCount
		if len(o.Attendees) > 0 {
			regular, visitor := o.Regular, o.Visitor
			rec.CircleOccurrenceRegularCount = &regular
			rec.CircleOccurrenceVisitorCount = &visitor
		}
	}
	if o.Summary != nil {
		if payload, err := json.Marshal(o.Summary); err == nil {
			rec.CircleOccurrenceRawPayload = datatypes.JSON(payload)
		}
	}

	attendees := make([]model.CircleAttendeeModel, 0, len(o.Attendees))
	for _, a := range o.Attendees {
		attendees = append(attendees, model.CircleAttendeeModel{
			CircleAttendeeIndividualID: a.ID,
			CircleAttendeeName:         a.Name,
			CircleAttendeeType:         a.Status,
		})
	}
	return rec, attendees
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type hinter interface {
	Hint() string
}

// logClientError logs a CCB failure plus its remediation hint when one exists.
func logClientError(scope string, err error) {
	log.Printf("[%s] ❌ %v", scope, err)
	var h hinter
	if errors.As(err, &h) {
		log.Printf("[%s] 💡 %s", scope, h.Hint())
	}
}
