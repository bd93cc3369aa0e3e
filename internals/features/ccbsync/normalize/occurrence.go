package normalize

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// synthesizedCount bounds how many future dates the textual-recurrence
// heuristic invents when it fires.
const synthesizedCount = 8

var weekdayRules = map[string]rrule.Weekday{
	"sunday":    rrule.SU,
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
}

// extractOccurrences pulls dated occurrences out of one event node, trying in
// order: explicit occurrence sub-list, combined date+time fields on the node,
// an event-level single date field, and finally the textual recurrence
// description. The last path synthesizes dates and is reported low-confidence.
func extractOccurrences(ev interface{}, now time.Time) (occs []EventOccurrence, lowConfidence bool) {
	// 1) explicit sub-list
	for _, node := range DigSlice(ev, "occurrences", "occurrence") {
		if occ, ok := parseOccurrenceNode(node); ok {
			occs = append(occs, occ)
		}
	}
	if len(occs) > 0 {
		return occs, false
	}

	// 2) date + time fields on the event node itself
	if start, ok := CombineDateTime(Str(Dig(ev, "date")), Str(Dig(ev, "start_time"))); ok {
		occ := EventOccurrence{Start: start}
		if end, ok := CombineDateTime(Str(Dig(ev, "date")), Str(Dig(ev, "end_time"))); ok {
			occ.End = &end
		}
		return []EventOccurrence{occ}, false
	}

	// 3) single event-level datetime
	if start, ok := ParseInstant(Str(Dig(ev, "start_datetime"))); ok {
		occ := EventOccurrence{Start: start}
		if end, ok := ParseInstant(Str(Dig(ev, "end_datetime"))); ok {
			occ.End = &end
		}
		return []EventOccurrence{occ}, false
	}

	// 4) textual recurrence description — best effort only
	if synth := synthesizeFromRecurrence(Str(Dig(ev, "recurrence_description")), now); len(synth) > 0 {
		return synth, true
	}

	return nil, false
}

func parseOccurrenceNode(node interface{}) (EventOccurrence, bool) {
	start, ok := ParseInstant(Str(Dig(node, "start_datetime")))
	if !ok {
		start, ok = CombineDateTime(Str(Dig(node, "start_date")), Str(Dig(node, "start_time")))
	}
	if !ok {
		// unparsable start instant: drop the occurrence, not the event
		return EventOccurrence{}, false
	}

	occ := EventOccurrence{Start: start}
	if end, ok := ParseInstant(Str(Dig(node, "end_datetime"))); ok {
		occ.End = &end
	}
	return occ, true
}

// synthesizeFromRecurrence turns a human-readable cadence like
// "Every week on Wednesday" into plausible upcoming dates. Only weekly
// cadences with a recognizable weekday are attempted.
func synthesizeFromRecurrence(desc string, now time.Time) []EventOccurrence {
	lower := strings.ToLower(desc)
	if lower == "" || !strings.Contains(lower, "week") {
		return nil
	}

	var day rrule.Weekday
	found := false
	for name, wd := range weekdayRules {
		if strings.Contains(lower, name) {
			day, found = wd, true
			break
		}
	}
	if !found {
		return nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{day},
		Dtstart:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Count:     synthesizedCount,
	})
	if err != nil {
		return nil
	}

	var occs []EventOccurrence
	for _, d := range r.All() {
		occs = append(occs, EventOccurrence{Start: d})
	}
	return occs
}
