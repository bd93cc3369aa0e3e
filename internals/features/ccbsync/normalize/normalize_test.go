package normalize

import (
	"testing"
	"time"

	"github.com/clbanning/mxj/v2"
)

func mustXML(t *testing.T, s string) mxj.Map {
	t.Helper()
	m, err := mxj.NewMapXml([]byte(s))
	if err != nil {
		t.Fatalf("NewMapXml: %v", err)
	}
	return m
}

func TestDigSliceSingletonCollapse(t *testing.T) {
	// One <event> parses as a map, two parse as a slice; callers must see a
	// slice either way.
	single := mustXML(t, `<ccb_api><response><events><event><name>A</name></event></events></response></ccb_api>`)
	double := mustXML(t, `<ccb_api><response><events><event><name>A</name></event><event><name>B</name></event></events></response></ccb_api>`)

	if got := len(DigSlice(map[string]interface{}(single), "ccb_api", "response", "events", "event")); got != 1 {
		t.Fatalf("singleton len = %d, want 1", got)
	}
	if got := len(DigSlice(map[string]interface{}(double), "ccb_api", "response", "events", "event")); got != 2 {
		t.Fatalf("double len = %d, want 2", got)
	}
	if got := DigSlice(map[string]interface{}(single), "ccb_api", "response", "nope"); got != nil {
		t.Fatalf("missing path = %v, want nil", got)
	}
}

func TestStrHandlesElementMaps(t *testing.T) {
	// <name ccb_id="7">Ann</name> parses to {"-ccb_id":"7", "#text":"Ann"}.
	doc := mustXML(t, `<root><name ccb_id="7">Ann</name><blank/></root>`)
	node := Dig(map[string]interface{}(doc), "root")

	if got := Str(Dig(node, "name")); got != "Ann" {
		t.Fatalf("Str(name) = %q, want Ann", got)
	}
	if got := Attr(Dig(node, "name"), "ccb_id"); got != "7" {
		t.Fatalf("Attr(ccb_id) = %q, want 7", got)
	}
	if got := Str(Dig(node, "blank")); got != "" {
		t.Fatalf("Str(blank) = %q, want empty", got)
	}
	if got := Str(nil); got != "" {
		t.Fatalf("Str(nil) = %q, want empty", got)
	}
}

func TestIDOfAttributeWinsOverChild(t *testing.T) {
	doc := mustXML(t, `<root><a id="10"><event_id>99</event_id></a><b><event_id>42</event_id></b><c/></root>`)
	root := Dig(map[string]interface{}(doc), "root")

	if got := IDOf(Dig(root, "a"), "id", "event_id"); got != "10" {
		t.Fatalf("IDOf(a) = %q, want 10", got)
	}
	if got := IDOf(Dig(root, "b"), "id", "event_id"); got != "42" {
		t.Fatalf("IDOf(b) = %q, want 42", got)
	}
	if got := IDOf(Dig(root, "c"), "id", "event_id"); got != "" {
		t.Fatalf("IDOf(c) = %q, want empty", got)
	}
}

func TestParseInstantLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-06 19:00:00", "2024-03-06T19:00:00Z", true},
		{"2024-03-06T19:00:00Z", "2024-03-06T19:00:00Z", true},
		{"2024-03-06T19:00:00", "2024-03-06T19:00:00Z", true},
		{"2024-03-06 19:00", "2024-03-06T19:00:00Z", true},
		{"2024-03-06", "2024-03-06T00:00:00Z", true},
		{"  2024-03-06  ", "2024-03-06T00:00:00Z", true},
		{"03/06/2024", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseInstant(tt.in)
		if ok != tt.ok {
			t.Fatalf("ParseInstant(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got.UTC().Format(time.RFC3339) != tt.want {
			t.Fatalf("ParseInstant(%q) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.want)
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	tests := []struct {
		date, clock string
		want        string
		ok          bool
	}{
		{"2024-03-06", "19:00", "2024-03-06T19:00:00Z", true},
		{"2024-03-06", "19:00:00", "2024-03-06T19:00:00Z", true},
		{"2024-03-06", "", "2024-03-06T00:00:00Z", true},
		{"", "19:00", "", false},
	}
	for _, tt := range tests {
		got, ok := CombineDateTime(tt.date, tt.clock)
		if ok != tt.ok {
			t.Fatalf("CombineDateTime(%q, %q) ok = %v, want %v", tt.date, tt.clock, ok, tt.ok)
		}
		if ok && got.UTC().Format(time.RFC3339) != tt.want {
			t.Fatalf("CombineDateTime(%q, %q) = %s, want %s", tt.date, tt.clock, got.Format(time.RFC3339), tt.want)
		}
	}
}

func TestProfileShapeWithOccurrenceList(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><events>
  <event id="E1">
    <name>Midweek Circle</name>
    <group id="55"/>
    <occurrences>
      <occurrence><start_datetime>2024-03-06 19:00:00</start_datetime><end_datetime>2024-03-06 20:30:00</end_datetime></occurrence>
      <occurrence><start_datetime>garbage</start_datetime></occurrence>
      <occurrence><start_datetime>2024-03-13 19:00:00</start_datetime></occurrence>
    </occurrences>
  </event>
  <event><name>no id, dropped</name></event>
</events></response></ccb_api>`)

	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	events := Events(doc, ShapeProfile, now)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (id-less event dropped)", len(events))
	}

	ev := events[0]
	if ev.EventID != "E1" || ev.Title != "Midweek Circle" || ev.GroupID != "55" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.LowConfidence {
		t.Fatal("explicit occurrences must not be flagged low-confidence")
	}
	// The unparsable middle occurrence is dropped, not the whole event.
	if len(ev.Occurrences) != 2 {
		t.Fatalf("occurrences = %d, want 2", len(ev.Occurrences))
	}
	if ev.Occurrences[0].End == nil || !ev.Occurrences[0].End.Equal(time.Date(2024, 3, 6, 20, 30, 0, 0, time.UTC)) {
		t.Fatalf("first occurrence end = %v", ev.Occurrences[0].End)
	}
}

func TestProfileShapeSynthesizesFromRecurrenceText(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><events>
  <event id="E2">
    <name>Weekly Circle</name>
    <group id="55"/>
    <recurrence_description>Every week on Wednesday</recurrence_description>
  </event>
</events></response></ccb_api>`)

	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // a Wednesday
	events := Events(doc, ShapeProfile, now)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	ev := events[0]
	if !ev.LowConfidence {
		t.Fatal("synthesized dates must be flagged low-confidence")
	}
	if len(ev.Occurrences) != 8 {
		t.Fatalf("occurrences = %d, want 8", len(ev.Occurrences))
	}
	first := ev.Occurrences[0].Start
	if !first.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first synthesized date = %s", first)
	}
	for _, occ := range ev.Occurrences {
		if occ.Start.Weekday() != time.Wednesday {
			t.Fatalf("synthesized date %s is not a Wednesday", occ.Start)
		}
	}
}

func TestProfileShapeMonthlyRecurrenceNotSynthesized(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><events>
  <event id="E3"><name>Monthly</name><recurrence_description>First Monday of the month</recurrence_description></event>
</events></response></ccb_api>`)

	events := Events(doc, ShapeProfile, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if len(events[0].Occurrences) != 0 || events[0].LowConfidence {
		t.Fatalf("monthly cadence must not synthesize: %+v", events[0])
	}
}

func TestOccurrenceShape(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><events>
  <event id="E1"><name>Circle</name><group id="55"/><date>2024-03-06</date><start_time>19:00</start_time><end_time>20:30</end_time></event>
</events></response></ccb_api>`)

	events := Events(doc, ShapeOccurrence, time.Now())
	if len(events) != 1 || len(events[0].Occurrences) != 1 {
		t.Fatalf("events = %+v", events)
	}
	occ := events[0].Occurrences[0]
	if !occ.Start.Equal(time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %s", occ.Start)
	}
	if occ.End == nil || !occ.End.Equal(time.Date(2024, 3, 6, 20, 30, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", occ.End)
	}
}

func TestCalendarShape(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><items>
  <item><event_id>E9</event_id><event_name>Open Gym</event_name><group_id>55</group_id><date>2024-03-10</date><start_time>09:00</start_time></item>
  <item><event_name>no event id</event_name><date>2024-03-11</date></item>
</items></response></ccb_api>`)

	events := Events(doc, ShapeCalendar, time.Now())
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.EventID != "E9" || ev.Title != "Open Gym" || ev.GroupID != "55" {
		t.Fatalf("event = %+v", ev)
	}
	if len(ev.Occurrences) != 1 || !ev.Occurrences[0].Start.Equal(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("occurrences = %+v", ev.Occurrences)
	}
}

func TestAttendanceShape(t *testing.T) {
	doc := mustXML(t, `
<ccb_api><response><events>
  <event id="E1"><name>Circle</name><occurrence>2024-03-06 19:00:00</occurrence></event>
</events></response></ccb_api>`)

	events := Events(doc, ShapeAttendance, time.Now())
	if len(events) != 1 || len(events[0].Occurrences) != 1 {
		t.Fatalf("events = %+v", events)
	}
	if !events[0].Occurrences[0].Start.Equal(time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %s", events[0].Occurrences[0].Start)
	}
}

func TestEventsNilDoc(t *testing.T) {
	if got := Events(nil, ShapeProfile, time.Now()); got != nil {
		t.Fatalf("Events(nil) = %v, want nil", got)
	}
}
