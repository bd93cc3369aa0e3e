package reconcile

import (
	"math"
	"sort"
	"strings"
	"time"

	"circleops_backend/internals/features/ccbsync/dto"
)

// Occurrence statuses persisted per (leader, meeting date).
const (
	StatusMet        = "met"
	StatusDidNotMeet = "did_not_meet"
	StatusNoRecord   = "no_record"
)

// Schedule carries the scheduling facts of one leader's circle.
type Schedule struct {
	MeetingDay string // weekday name, case-insensitive
	Frequency  string // weekly | biweekly (any value containing "bi" is biweekly)
	Anchor     *time.Time
}

// Outcome classifies one calendar date of a leader's meeting history.
type Outcome struct {
	Date      time.Time
	Status    string
	EventID   string
	HeadCount *int
	Regular   int
	Visitor   int
	Attendees []dto.AttendeeRef
	Summary   *dto.AttendanceSummary
}

// Fixed Sunday=0…Saturday=6 table; unknown names yield no expected dates.
var weekdayIndex = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ExpectedDates enumerates the calendar dates in [start,end] the circle is
// expected to meet on: every date matching the meeting weekday, thinned by the
// biweekly parity rule when an anchor is set.
func ExpectedDates(s Schedule, start, end time.Time) []time.Time {
	day, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(s.MeetingDay))]
	if !ok {
		return nil
	}

	biweekly := strings.Contains(strings.ToLower(s.Frequency), "bi") && s.Anchor != nil
	var anchor time.Time
	if biweekly {
		anchor = dateOnly(*s.Anchor)
	}

	var dates []time.Time
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != day {
			continue
		}
		if biweekly && !evenWeeksFromAnchor(d, anchor) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// evenWeeksFromAnchor rounds the anchor distance to whole weeks so the
// every-other-week cadence is stable on both sides of the anchor.
func evenWeeksFromAnchor(d, anchor time.Time) bool {
	weeks := math.Round(d.Sub(anchor).Hours() / (24 * 7))
	return int(math.Abs(weeks))%2 == 0
}

// Reconcile diffs the leader's expected meeting calendar against fetched
// attendance. Attendance rows classify as met or did_not_meet; expected dates
// with no attendance and not later than today synthesize a no_record
// placeholder so gaps stay visible and auditable.
func Reconcile(s Schedule, rows []dto.LinkRow, start, end, today time.Time) []Outcome {
	byDate := make(map[string]Outcome)

	for _, row := range rows {
		if row.Attendance == nil || row.OccurDate == "" {
			continue
		}
		if _, dup := byDate[row.OccurDate]; dup {
			continue
		}

		date, err := time.Parse("2006-01-02", row.OccurDate)
		if err != nil {
			continue
		}

		att := row.Attendance
		status := StatusMet
		if att.DidNotMeet != nil && *att.DidNotMeet {
			status = StatusDidNotMeet
		}

		regular, visitor := 0, 0
		for _, a := range att.Attendees {
			if a.Status == "visitor" {
				visitor++
			} else {
				regular++
			}
		}

		byDate[row.OccurDate] = Outcome{
			Date:      date,
			Status:    status,
			EventID:   row.EventID,
			HeadCount: att.HeadCount,
			Regular:   regular,
			Visitor:   visitor,
			Attendees: att.Attendees,
			Summary:   att,
		}
	}

	todayDate := dateOnly(today)
	for _, expected := range ExpectedDates(s, start, end) {
		key := expected.Format("2006-01-02")
		if _, have := byDate[key]; have {
			continue
		}
		if expected.After(todayDate) {
			continue
		}
		byDate[key] = Outcome{Date: expected, Status: StatusNoRecord}
	}

	outcomes := make([]Outcome, 0, len(byDate))
	for _, o := range byDate {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Date.Before(outcomes[j].Date) })
	return outcomes
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
