package service

import (
	"context"
	"log"
	"time"

	"circleops_backend/internals/features/ccbsync/dto"
	"circleops_backend/internals/features/ccbsync/normalize"
)

// Discovery windows: look a month back and two months ahead so that both
// recently finished and upcoming occurrences witness the group's events.
const (
	discoveryLookbackDays  = 30
	discoveryLookaheadDays = 60
)

// Discover resolves and caches the CCB event ids belonging to each leader's
// group. It is the lower-frequency companion of Sync: once a leader's cache
// is written (even as an empty list), daily syncs skip the expensive lookups.
func (s *SyncService) Discover(ctx context.Context, opts DiscoverOptions) dto.DiscoverResult {
	res := dto.DiscoverResult{Details: []dto.DiscoverDetail{}}

	leaders, err := s.Store.ActiveLeaders(ctx, LeaderFilter{
		LeaderID:         opts.LeaderID,
		OnlyUndiscovered: !opts.Force,
	})
	if err != nil {
		res.Errors++
		log.Printf("[DISCOVERY] failed to load leaders: %v", err)
		return res
	}

	for i := range leaders {
		if i > 0 {
			s.sleep(discoveryThrottle)
		}
		leader := leaders[i]
		res.Processed++

		detail := dto.DiscoverDetail{
			LeaderID:   leader.CircleLeaderID.String(),
			LeaderName: leader.CircleLeaderName,
		}

		ids, err := s.discoverEventIDs(ctx, leader.CircleLeaderGroupID)
		if err != nil {
			res.Errors++
			detail.Error = err.Error()
			logClientError("DISCOVERY", err)
			res.Details = append(res.Details, detail)
			continue
		}

		// Cache write-back — an empty list is cached too, so future syncs
		// don't rediscover a group that genuinely has no events.
		if err := s.Store.SaveLeaderEventIDs(ctx, leader.CircleLeaderID, ids); err != nil {
			res.Errors++
			detail.Error = err.Error()
			res.Details = append(res.Details, detail)
			continue
		}

		detail.EventIDs = ids
		if len(ids) == 0 {
			res.NoEvents++
		} else {
			res.Discovered++
		}
		res.Details = append(res.Details, detail)
	}

	log.Printf("[DISCOVERY] processed=%d discovered=%d no_events=%d errors=%d",
		res.Processed, res.Discovered, res.NoEvents, res.Errors)
	return res
}

// discoverEventIDs tries the profile listing first (which may return every
// event system-wide), then falls back to the public calendar listing. Events
// carrying the wanted group id win; events with no group reference are only
// claimed when no strict match exists at all.
func (s *SyncService) discoverEventIDs(ctx context.Context, groupID string) ([]string, error) {
	now := s.Now()
	windowStart := now.AddDate(0, 0, -discoveryLookbackDays)
	windowEnd := now.AddDate(0, 0, discoveryLookaheadDays)

	profileDoc, profileErr := s.API.Request(ctx, map[string]string{"srv": "event_profiles"})
	if profileErr == nil {
		events := normalize.Events(profileDoc, normalize.ShapeProfile, now)
		if ids := s.matchGroupEvents(events, groupID, windowStart, windowEnd); len(ids) > 0 {
			return ids, nil
		}
	}

	calendarDoc, calendarErr := s.API.Request(ctx, map[string]string{
		"srv":        "public_calendar_listing",
		"date_start": windowStart.Format("2006-01-02"),
		"date_end":   windowEnd.Format("2006-01-02"),
	})
	if calendarErr == nil {
		events := normalize.Events(calendarDoc, normalize.ShapeCalendar, now)
		if ids := s.matchGroupEvents(events, groupID, windowStart, windowEnd); len(ids) > 0 {
			return ids, nil
		}
	}

	if profileErr != nil && calendarErr != nil {
		return nil, profileErr
	}
	return []string{}, nil
}

// matchGroupEvents expands events over the discovery window and collects the
// ids owned by the group. Strict group matches take precedence; rows from
// group-id-less events count only when no strict match exists, so one
// unlabeled system-wide event cannot leak into every leader's cache.
func (s *SyncService) matchGroupEvents(events []normalize.NormalizedEvent, groupID string, start, end time.Time) []string {
	rows := s.Expander.Expand(events, groupID, start, end)

	ownedBy := make(map[string]string, len(events)) // event id → group id ("" = unlabeled)
	for _, ev := range events {
		ownedBy[ev.EventID] = ev.GroupID
	}

	var strict, loose []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, dup := seen[row.EventID]; dup {
			continue
		}
		seen[row.EventID] = struct{}{}
		if ownedBy[row.EventID] == groupID {
			strict = append(strict, row.EventID)
		} else {
			loose = append(loose, row.EventID)
		}
	}

	if len(strict) > 0 {
		return strict
	}
	return loose
}
