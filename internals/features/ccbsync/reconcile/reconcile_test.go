package reconcile

import (
	"testing"
	"time"

	"circleops_backend/internals/features/ccbsync/dto"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayp(s string) *time.Time {
	t := day(s)
	return &t
}

func datesOf(ts []time.Time) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Format("2006-01-02"))
	}
	return out
}

func equalDates(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestExpectedDatesWeekly(t *testing.T) {
	s := Schedule{MeetingDay: "Wednesday", Frequency: "weekly"}
	got := datesOf(ExpectedDates(s, day("2024-03-01"), day("2024-03-31")))
	if !equalDates(got, "2024-03-06", "2024-03-13", "2024-03-20", "2024-03-27") {
		t.Fatalf("dates = %v", got)
	}
}

func TestExpectedDatesBiweeklyParity(t *testing.T) {
	// Anchor 2024-01-01 is a Monday; every other Monday from there.
	s := Schedule{MeetingDay: "monday", Frequency: "biweekly", Anchor: dayp("2024-01-01")}
	got := datesOf(ExpectedDates(s, day("2024-01-01"), day("2024-02-12")))
	if !equalDates(got, "2024-01-01", "2024-01-15", "2024-01-29", "2024-02-12") {
		t.Fatalf("dates = %v", got)
	}
}

func TestExpectedDatesBiweeklyBeforeAnchor(t *testing.T) {
	// Parity must hold on both sides of the anchor.
	s := Schedule{MeetingDay: "monday", Frequency: "biweekly", Anchor: dayp("2024-01-29")}
	got := datesOf(ExpectedDates(s, day("2024-01-01"), day("2024-02-12")))
	if !equalDates(got, "2024-01-01", "2024-01-15", "2024-01-29", "2024-02-12") {
		t.Fatalf("dates = %v", got)
	}
}

func TestExpectedDatesBiweeklyWithoutAnchorIsWeekly(t *testing.T) {
	s := Schedule{MeetingDay: "monday", Frequency: "biweekly"}
	got := ExpectedDates(s, day("2024-01-01"), day("2024-01-31"))
	if len(got) != 5 {
		t.Fatalf("dates = %v, want every Monday", datesOf(got))
	}
}

func TestExpectedDatesUnknownWeekday(t *testing.T) {
	s := Schedule{MeetingDay: "someday", Frequency: "weekly"}
	if got := ExpectedDates(s, day("2024-01-01"), day("2024-12-31")); got != nil {
		t.Fatalf("dates = %v, want nil", datesOf(got))
	}
}

func metRow(date, eventID string, headCount int, attendees ...dto.AttendeeRef) dto.LinkRow {
	hc := headCount
	return dto.LinkRow{
		EventID:   eventID,
		OccurDate: date,
		Attendance: &dto.AttendanceSummary{
			EventID:    eventID,
			Occurrence: date,
			HeadCount:  &hc,
			Attendees:  attendees,
		},
	}
}

func TestReconcileFillsNoRecordGaps(t *testing.T) {
	s := Schedule{MeetingDay: "monday", Frequency: "weekly"}
	// Attendance on the first and third Mondays; only the middle one is a gap.
	rows := []dto.LinkRow{
		metRow("2024-03-04", "E1", 7),
		metRow("2024-03-18", "E1", 9),
	}

	outcomes := Reconcile(s, rows, day("2024-03-04"), day("2024-03-18"), day("2024-03-18"))
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}

	wantStatus := []string{StatusMet, StatusNoRecord, StatusMet}
	wantDates := []string{"2024-03-04", "2024-03-11", "2024-03-18"}
	for i, o := range outcomes {
		if o.Status != wantStatus[i] || o.Date.Format("2006-01-02") != wantDates[i] {
			t.Fatalf("outcome[%d] = %s %s, want %s %s", i, o.Date.Format("2006-01-02"), o.Status, wantDates[i], wantStatus[i])
		}
	}
	if outcomes[1].HeadCount != nil {
		t.Fatalf("no_record head count = %v, want nil", outcomes[1].HeadCount)
	}
	if outcomes[2].HeadCount == nil || *outcomes[2].HeadCount != 9 {
		t.Fatalf("met head count = %v", outcomes[2].HeadCount)
	}
}

func TestReconcileNeverSynthesizesFutureGaps(t *testing.T) {
	s := Schedule{MeetingDay: "monday", Frequency: "weekly"}
	// Window reaches past "today"; only gaps up to today are filled.
	outcomes := Reconcile(s, nil, day("2024-03-04"), day("2024-03-18"), day("2024-03-11"))
	got := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		got = append(got, o.Date.Format("2006-01-02"))
	}
	if !equalDates(got, "2024-03-04", "2024-03-11") {
		t.Fatalf("dates = %v", got)
	}
}

func TestReconcileDidNotMeet(t *testing.T) {
	dnm := true
	rows := []dto.LinkRow{{
		EventID:   "E1",
		OccurDate: "2024-03-06",
		Attendance: &dto.AttendanceSummary{
			EventID:    "E1",
			Occurrence: "2024-03-06",
			DidNotMeet: &dnm,
		},
	}}

	s := Schedule{MeetingDay: "wednesday", Frequency: "weekly"}
	outcomes := Reconcile(s, rows, day("2024-03-06"), day("2024-03-06"), day("2024-03-06"))
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(outcomes))
	}
	if outcomes[0].Status != StatusDidNotMeet {
		t.Fatalf("status = %s, want %s", outcomes[0].Status, StatusDidNotMeet)
	}
}

func TestReconcileCountsVisitors(t *testing.T) {
	rows := []dto.LinkRow{metRow("2024-03-06", "E1", 4,
		dto.AttendeeRef{ID: "P1", Status: "regular"},
		dto.AttendeeRef{ID: "P2", Status: "regular"},
		dto.AttendeeRef{ID: "P3", Status: "regular"},
		dto.AttendeeRef{ID: "P4", Status: "visitor"},
	)}

	s := Schedule{MeetingDay: "wednesday", Frequency: "weekly"}
	outcomes := Reconcile(s, rows, day("2024-03-06"), day("2024-03-06"), day("2024-03-06"))
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(outcomes))
	}
	if outcomes[0].Regular != 3 || outcomes[0].Visitor != 1 {
		t.Fatalf("regular/visitor = %d/%d, want 3/1", outcomes[0].Regular, outcomes[0].Visitor)
	}
}

func TestReconcileFirstAttendanceRowWinsPerDate(t *testing.T) {
	rows := []dto.LinkRow{
		metRow("2024-03-06", "E1", 10),
		metRow("2024-03-06", "E2", 99),
	}

	s := Schedule{MeetingDay: "wednesday", Frequency: "weekly"}
	outcomes := Reconcile(s, rows, day("2024-03-06"), day("2024-03-06"), day("2024-03-06"))
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(outcomes))
	}
	if outcomes[0].EventID != "E1" || *outcomes[0].HeadCount != 10 {
		t.Fatalf("outcome = %+v", outcomes[0])
	}
}

func TestReconcileIgnoresRowsWithoutAttendance(t *testing.T) {
	rows := []dto.LinkRow{{EventID: "E1", OccurDate: "2024-03-06"}}
	s := Schedule{MeetingDay: "wednesday", Frequency: "weekly"}
	outcomes := Reconcile(s, rows, day("2024-03-06"), day("2024-03-06"), day("2024-03-06"))
	if len(outcomes) != 1 || outcomes[0].Status != StatusNoRecord {
		t.Fatalf("outcomes = %+v, want one no_record", outcomes)
	}
}
