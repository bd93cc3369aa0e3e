package fetch

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clbanning/mxj/v2"

	"circleops_backend/internals/features/ccbsync/dto"
	"circleops_backend/internals/features/ccbsync/normalize"
)

// API is the slice of the CCB client the fetcher needs.
type API interface {
	Request(ctx context.Context, params map[string]string) (mxj.Map, error)
	LinkBase() string
}

const (
	// Per-event mode is throttled hard: at most 3 in flight, and every call
	// is followed by a cooldown before the worker picks up the next one.
	// CCB's rate limiter treats bursts as abuse.
	perEventWorkers  = 3
	perEventCooldown = 200 * time.Millisecond
)

// Fetcher pulls attendance detail out of CCB, either one occurrence at a time
// (legacy path) or as a single bulk range query (the orchestrator's path).
type Fetcher struct {
	API   API
	sleep func(time.Duration)
}

func NewFetcher(api API) *Fetcher {
	return &Fetcher{API: api, sleep: time.Sleep}
}

// FetchOne loads attendance for a single event occurrence. A response lacking
// both an event id and an occurrence marker means "no attendance recorded" and
// returns nil without error.
func (f *Fetcher) FetchOne(ctx context.Context, eventID string, date time.Time, includeAttendees bool) (*dto.AttendanceSummary, error) {
	doc, err := f.API.Request(ctx, map[string]string{
		"srv":        "attendance_profile",
		"id":         eventID,
		"occurrence": date.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	node := firstEventNode(doc)
	if node == nil {
		return nil, nil
	}
	summary := parseAttendanceNode(node, includeAttendees)
	if summary.EventID == "" && summary.Occurrence == "" {
		return nil, nil
	}
	if summary.EventID == "" {
		summary.EventID = eventID
	}
	return summary, nil
}

// AttachAttendance fills Attendance on each row via per-event calls, bounded
// to 3 concurrent workers with a 200ms post-call cooldown. Rows whose fetch
// fails keep a nil Attendance; the first error is returned for reporting.
func (f *Fetcher) AttachAttendance(ctx context.Context, rows []dto.LinkRow, includeAttendees bool) ([]dto.LinkRow, error) {
	out := make([]dto.LinkRow, len(rows))
	copy(out, rows)

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for w := 0; w < perEventWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				date, ok := normalize.ParseInstant(out[i].OccurDate)
				if ok {
					summary, err := f.FetchOne(ctx, out[i].EventID, date, includeAttendees)
					mu.Lock()
					if err != nil && firstErr == nil {
						firstErr = err
					}
					out[i].Attendance = summary
					mu.Unlock()
				}
				f.sleep(perEventCooldown)
			}
		}()
	}

	for i := range out {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out, firstErr
}

// FetchRange loads every attendance record in the window with one outbound
// call, grouped by event id. This is the path daily/backfill syncs take — it
// costs the same regardless of how many leaders are being synced.
func (f *Fetcher) FetchRange(ctx context.Context, start, end time.Time, includeAttendees bool) (map[string][]dto.LinkRow, error) {
	doc, err := f.API.Request(ctx, map[string]string{
		"srv":        "attendance_profiles",
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]dto.LinkRow)
	for _, node := range normalize.DigSlice(map[string]interface{}(doc), "ccb_api", "response", "events", "event") {
		summary := parseAttendanceNode(node, includeAttendees)
		if summary.EventID == "" || summary.Occurrence == "" {
			continue
		}

		row := dto.LinkRow{
			EventID:    summary.EventID,
			Title:      normalize.Str(normalize.Dig(node, "name")),
			OccurDate:  summary.Occurrence,
			Attendance: summary,
		}
		if occur, ok := normalize.ParseInstant(summary.Occurrence); ok {
			row.DeepLink = f.API.LinkBase() + "/event_detail.php?event_id=" + summary.EventID + "&occur=" + occur.Format("20060102")
		}
		byEvent[summary.EventID] = append(byEvent[summary.EventID], row)
	}
	return byEvent, nil
}

func firstEventNode(doc mxj.Map) interface{} {
	nodes := normalize.DigSlice(map[string]interface{}(doc), "ccb_api", "response", "events", "event")
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func parseAttendanceNode(node interface{}, includeAttendees bool) *dto.AttendanceSummary {
	summary := &dto.AttendanceSummary{
		EventID:        normalize.IDOf(node, "id", "event_id"),
		Topic:          normalize.Str(normalize.Dig(node, "topic")),
		Notes:          normalize.Str(normalize.Dig(node, "notes")),
		PrayerRequests: normalize.Str(normalize.Dig(node, "prayer_requests")),
	}

	if occur, ok := normalize.ParseInstant(normalize.Str(normalize.Dig(node, "occurrence"))); ok {
		summary.Occurrence = occur.Format("2006-01-02")
	}

	if raw := normalize.Str(normalize.Dig(node, "did_not_meet")); raw != "" {
		dnm := raw == "true" || raw == "1"
		summary.DidNotMeet = &dnm
	}

	if includeAttendees {
		for _, a := range normalize.DigSlice(node, "attendees", "attendee") {
			summary.Attendees = append(summary.Attendees, dto.AttendeeRef{
				ID:     normalize.IDOf(a, "id", "individual_id"),
				Name:   normalize.Str(normalize.Dig(a, "name")),
				Status: ClassifyAttendee(normalize.Str(normalize.Dig(a, "status"))),
			})
		}
	}

	if raw := normalize.Str(normalize.Dig(node, "head_count")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			summary.HeadCount = &n
		}
	}
	if summary.HeadCount == nil && len(summary.Attendees) > 0 {
		n := len(summary.Attendees)
		summary.HeadCount = &n
	}

	return summary
}

// ClassifyAttendee maps CCB's free-form status text to regular/visitor.
func ClassifyAttendee(status string) string {
	if strings.Contains(strings.ToLower(status), "visit") {
		return "visitor"
	}
	return "regular"
}
