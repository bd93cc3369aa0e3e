package normalize

import (
	"time"

	"github.com/clbanning/mxj/v2"
)

// Shape names the CCB response families the normalizer understands. Each maps
// to one ShapeParser; the calling operation knows which service it invoked.
type Shape string

const (
	ShapeProfile    Shape = "event_profiles"
	ShapeOccurrence Shape = "event_occurrences"
	ShapeCalendar   Shape = "public_calendar_listing"
	ShapeAttendance Shape = "attendance_profiles"
)

// ShapeParser reduces one known CCB response shape to NormalizedEvents.
// Implementations are pure — no network I/O, no shared state.
type ShapeParser interface {
	Parse(doc mxj.Map, now time.Time) []NormalizedEvent
}

// ForShape selects the parser for a response family.
func ForShape(s Shape) ShapeParser {
	switch s {
	case ShapeOccurrence:
		return OccurrenceShape{}
	case ShapeCalendar:
		return CalendarShape{}
	case ShapeAttendance:
		return AttendanceShape{}
	default:
		return ProfileShape{}
	}
}

// Events is the normalizer entry point used by discovery and sync.
func Events(doc mxj.Map, shape Shape, now time.Time) []NormalizedEvent {
	if doc == nil {
		return nil
	}
	return ForShape(shape).Parse(doc, now)
}

/* ===============================
   Shape implementations
=================================*/

// ProfileShape handles the full event_profiles listing. When called without
// filters CCB returns every event in the system, so GroupID is per-event and
// filtered downstream.
type ProfileShape struct{}

func (ProfileShape) Parse(doc mxj.Map, now time.Time) []NormalizedEvent {
	var events []NormalizedEvent
	for _, node := range DigSlice(map[string]interface{}(doc), "ccb_api", "response", "events", "event") {
		ev := NormalizedEvent{
			EventID: IDOf(node, "id", "event_id"),
			Title:   Str(Dig(node, "name")),
			GroupID: IDOf(Dig(node, "group"), "id", "group_id"),
		}
		if ev.EventID == "" {
			continue
		}
		ev.Occurrences, ev.LowConfidence = extractOccurrences(node, now)
		events = append(events, ev)
	}
	return events
}

// OccurrenceShape handles listings where each event node already carries one
// resolved date + time.
type OccurrenceShape struct{}

func (OccurrenceShape) Parse(doc mxj.Map, now time.Time) []NormalizedEvent {
	var events []NormalizedEvent
	for _, node := range DigSlice(map[string]interface{}(doc), "ccb_api", "response", "events", "event") {
		ev := NormalizedEvent{
			EventID: IDOf(node, "id", "event_id"),
			Title:   Str(Dig(node, "name")),
			GroupID: IDOf(Dig(node, "group"), "id", "group_id"),
		}
		if ev.EventID == "" {
			continue
		}
		if start, ok := CombineDateTime(Str(Dig(node, "date")), Str(Dig(node, "start_time"))); ok {
			occ := EventOccurrence{Start: start}
			if end, ok := CombineDateTime(Str(Dig(node, "date")), Str(Dig(node, "end_time"))); ok {
				occ.End = &end
			}
			ev.Occurrences = []EventOccurrence{occ}
		}
		events = append(events, ev)
	}
	return events
}

// CalendarShape handles the public calendar listing, where entries live under
// items/item and the group reference is keyed differently.
type CalendarShape struct{}

func (CalendarShape) Parse(doc mxj.Map, now time.Time) []NormalizedEvent {
	var events []NormalizedEvent
	for _, node := range DigSlice(map[string]interface{}(doc), "ccb_api", "response", "items", "item") {
		ev := NormalizedEvent{
			EventID: Str(Dig(node, "event_id")),
			Title:   Str(Dig(node, "event_name")),
			GroupID: Str(Dig(node, "group_id")),
		}
		if ev.EventID == "" {
			continue
		}
		if start, ok := CombineDateTime(Str(Dig(node, "date")), Str(Dig(node, "start_time"))); ok {
			occ := EventOccurrence{Start: start}
			if end, ok := CombineDateTime(Str(Dig(node, "date")), Str(Dig(node, "end_time"))); ok {
				occ.End = &end
			}
			ev.Occurrences = []EventOccurrence{occ}
		}
		events = append(events, ev)
	}
	return events
}

// AttendanceShape handles attendance listings, where each event carries a
// single pre-resolved occurrence field.
type AttendanceShape struct{}

func (AttendanceShape) Parse(doc mxj.Map, now time.Time) []NormalizedEvent {
	var events []NormalizedEvent
	for _, node := range DigSlice(map[string]interface{}(doc), "ccb_api", "response", "events", "event") {
		ev := NormalizedEvent{
			EventID: IDOf(node, "id", "event_id"),
			Title:   Str(Dig(node, "name")),
			GroupID: IDOf(Dig(node, "group"), "id", "group_id"),
		}
		if ev.EventID == "" {
			continue
		}
		if start, ok := ParseInstant(Str(Dig(node, "occurrence"))); ok {
			ev.Occurrences = []EventOccurrence{{Start: start}}
		}
		events = append(events, ev)
	}
	return events
}
