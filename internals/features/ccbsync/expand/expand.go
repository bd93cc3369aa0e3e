package expand

import (
	"fmt"
	"time"

	"circleops_backend/internals/features/ccbsync/dto"
	"circleops_backend/internals/features/ccbsync/normalize"
)

// Expander turns normalized events into concrete dated LinkRows for one group
// and date window. LinkBase is the CCB host the deep links point at; the link
// format is user-facing and must stay stable.
type Expander struct {
	LinkBase string
}

// Expand filters events to the wanted group, keeps only occurrences whose
// interval overlaps [start 00:00, end 23:59:59], and deduplicates by
// (eventID, occurDate) — first occurrence wins.
//
// Events without a group id pass the filter; the ambiguity is resolved by the
// caller, which matches rows against each leader's cached event-id list.
func (e Expander) Expand(events []normalize.NormalizedEvent, wantedGroupID string, start, end time.Time) []dto.LinkRow {
	queryStart := startOfDay(start)
	queryEnd := endOfDay(end)

	seen := make(map[string]struct{})
	var rows []dto.LinkRow

	for _, ev := range events {
		if ev.GroupID != "" && wantedGroupID != "" && ev.GroupID != wantedGroupID {
			continue
		}

		for _, occ := range ev.Occurrences {
			occEnd := occ.Start
			if occ.End != nil {
				occEnd = *occ.End
			}
			if occEnd.Before(queryStart) || occ.Start.After(queryEnd) {
				continue
			}

			occurDate := occ.Start.Format("2006-01-02")
			key := ev.EventID + "|" + occurDate
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			rows = append(rows, dto.LinkRow{
				EventID:   ev.EventID,
				Title:     ev.Title,
				OccurDate: occurDate,
				DeepLink:  e.DeepLink(ev.EventID, occ.Start),
			})
		}
	}
	return rows
}

// DeepLink builds the stable event-detail URL with a compact date token.
func (e Expander) DeepLink(eventID string, occur time.Time) string {
	return fmt.Sprintf("%s/event_detail.php?event_id=%s&occur=%s", e.LinkBase, eventID, occur.Format("20060102"))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
