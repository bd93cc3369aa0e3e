package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/google/uuid"

	"circleops_backend/internals/features/ccbsync/expand"
	"circleops_backend/internals/features/ccbsync/fetch"
	"circleops_backend/internals/features/ccbsync/model"
	"circleops_backend/internals/features/ccbsync/reconcile"
	leaderModel "circleops_backend/internals/features/circles/leaders/model"
)

/* ===============================
   Test doubles
=================================*/

type fakeAPI struct {
	mu    sync.Mutex
	calls []map[string]string
	// keyed by srv; a nil entry means "answer with this error"
	docs map[string]mxj.Map
	errs map[string]error
}

func (f *fakeAPI) Request(ctx context.Context, params map[string]string) (mxj.Map, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()

	srv := params["srv"]
	if err, ok := f.errs[srv]; ok {
		return nil, err
	}
	return f.docs[srv], nil
}

func (f *fakeAPI) LinkBase() string { return "https://acme.ccbchurch.com" }

func (f *fakeAPI) callsFor(srv string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c["srv"] == srv {
			n++
		}
	}
	return n
}

type fakeStore struct {
	leaders []leaderModel.CircleLeaderModel

	savedEventIDs map[uuid.UUID][]string
	occurrences   map[string]*model.CircleOccurrenceModel // leaderID|date
	occurrenceIDs map[string]uuid.UUID
	attendees     map[uuid.UUID][]model.CircleAttendeeModel
	roster        map[string]model.CircleRosterEntryModel // leaderID|individualID

	upsertErr error
}

func newFakeStore(leaders ...leaderModel.CircleLeaderModel) *fakeStore {
	return &fakeStore{
		leaders:       leaders,
		savedEventIDs: make(map[uuid.UUID][]string),
		occurrences:   make(map[string]*model.CircleOccurrenceModel),
		occurrenceIDs: make(map[string]uuid.UUID),
		attendees:     make(map[uuid.UUID][]model.CircleAttendeeModel),
		roster:        make(map[string]model.CircleRosterEntryModel),
	}
}

func (s *fakeStore) ActiveLeaders(ctx context.Context, f LeaderFilter) ([]leaderModel.CircleLeaderModel, error) {
	var out []leaderModel.CircleLeaderModel
	for _, l := range s.leaders {
		if f.LeaderID != nil && l.CircleLeaderID != *f.LeaderID {
			continue
		}
		if f.OnlyUndiscovered && l.CircleLeaderEventIDs != nil {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeStore) SaveLeaderEventIDs(ctx context.Context, leaderID uuid.UUID, eventIDs []string) error {
	if eventIDs == nil {
		eventIDs = []string{}
	}
	s.savedEventIDs[leaderID] = eventIDs
	return nil
}

func (s *fakeStore) UpsertOccurrence(ctx context.Context, rec *model.CircleOccurrenceModel) (uuid.UUID, error) {
	if s.upsertErr != nil {
		return uuid.Nil, s.upsertErr
	}
	key := rec.CircleOccurrenceLeaderID.String() + "|" + rec.CircleOccurrenceMeetingDate.Format("2006-01-02")
	id, ok := s.occurrenceIDs[key]
	if !ok {
		id = uuid.New()
		s.occurrenceIDs[key] = id
	}
	cp := *rec
	cp.CircleOccurrenceID = id
	s.occurrences[key] = &cp
	return id, nil
}

func (s *fakeStore) ReplaceAttendees(ctx context.Context, occurrenceID uuid.UUID, attendees []model.CircleAttendeeModel) error {
	s.attendees[occurrenceID] = attendees
	return nil
}

func (s *fakeStore) UpsertRosterEntries(ctx context.Context, entries []model.CircleRosterEntryModel) error {
	for _, e := range entries {
		s.roster[e.CircleRosterEntryLeaderID.String()+"|"+e.CircleRosterEntryIndividualID] = e
	}
	return nil
}

func (s *fakeStore) OccurrencesForLeader(ctx context.Context, leaderID uuid.UUID, from, to time.Time) ([]model.CircleOccurrenceModel, error) {
	var out []model.CircleOccurrenceModel
	for _, o := range s.occurrences {
		if o.CircleOccurrenceLeaderID == leaderID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CircleOccurrenceMeetingDate.Before(out[j].CircleOccurrenceMeetingDate)
	})
	return out, nil
}

func newTestService(store Store, api *fakeAPI, now time.Time) *SyncService {
	return &SyncService{
		Store:    store,
		API:      api,
		Fetcher:  newQuietFetcher(api),
		Expander: expand.Expander{LinkBase: api.LinkBase()},
		Now:      func() time.Time { return now },
		sleep:    func(time.Duration) {},
	}
}

func newQuietFetcher(api fetch.API) *fetch.Fetcher {
	return fetch.NewFetcher(api)
}

func xmlDoc(t *testing.T, s string) mxj.Map {
	t.Helper()
	m, err := mxj.NewMapXml([]byte(s))
	if err != nil {
		t.Fatalf("NewMapXml: %v", err)
	}
	return m
}

func wednesdayLeader(ids ...string) leaderModel.CircleLeaderModel {
	l := leaderModel.CircleLeaderModel{
		CircleLeaderID:         uuid.New(),
		CircleLeaderName:       "Jordan Reyes",
		CircleLeaderGroupID:    "55",
		CircleLeaderMeetingDay: "wednesday",
		CircleLeaderFrequency:  "weekly",
		CircleLeaderStatus:     "active",
	}
	if ids != nil {
		l.CircleLeaderEventIDs = ids
	}
	return l
}

const attendanceDoc = `
<ccb_api><response><events>
  <event id="E1">
    <name>Midweek Circle</name>
    <occurrence>2024-03-06 19:00:00</occurrence>
    <head_count>12</head_count>
    <topic>Romans 8</topic>
    <attendees>
      <attendee><id>P1</id><name>Ann</name><status>Member</status></attendee>
      <attendee><id>P2</id><name>Bob</name><status>Member</status></attendee>
      <attendee><id>P3</id><name>Cyd</name><status>Member</status></attendee>
      <attendee><id>P4</id><name>Dee</name><status>Member</status></attendee>
      <attendee><id>P5</id><name>Eli</name><status>Member</status></attendee>
      <attendee><id>P6</id><name>Fay</name><status>Member</status></attendee>
      <attendee><id>P7</id><name>Gus</name><status>Leader</status></attendee>
      <attendee><id>P8</id><name>Hal</name><status>Member</status></attendee>
      <attendee><id>P9</id><name>Ida</name><status>Member</status></attendee>
      <attendee><id>P10</id><name>Jo</name><status>Member</status></attendee>
      <attendee><id>P11</id><name>Kim</name><status>Visitor</status></attendee>
      <attendee><id>P12</id><name>Lou</name><status>First-time visit</status></attendee>
    </attendees>
  </event>
</events></response></ccb_api>`

const rosterDoc = `
<ccb_api><response><groups><group><participants>
  <participant><id>P1</id><name>Ann Alder</name><email>ann@example.org</email></participant>
  <participant><id>P2</id><first_name>Bob</first_name><last_name>Breck</last_name><phone>555-0101</phone></participant>
</participants></group></groups></response></ccb_api>`

/* ===============================
   Sync
=================================*/

func TestSyncReconcilesAndPersists(t *testing.T) {
	leader := wednesdayLeader("E1")
	store := newFakeStore(leader)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	// 2024-03-13 is a Wednesday; the 14-day window holds three of them.
	now := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, api, now)

	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})

	if res.Warning != "" {
		t.Fatalf("warning = %q", res.Warning)
	}
	if res.DateRange != "2024-02-28..2024-03-13" {
		t.Fatalf("date range = %s", res.DateRange)
	}
	if res.Synced != 3 || res.NoRecordFilled != 2 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.LeadersProcessed != 1 || res.LeadersWithData != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.RosterRefreshed != 1 || res.RosterErrors != 0 {
		t.Fatalf("result = %+v", res)
	}

	if api.callsFor("attendance_profiles") != 1 {
		t.Fatalf("bulk calls = %d, want 1", api.callsFor("attendance_profiles"))
	}

	prefix := leader.CircleLeaderID.String() + "|"
	met := store.occurrences[prefix+"2024-03-06"]
	if met == nil || met.CircleOccurrenceStatus != reconcile.StatusMet {
		t.Fatalf("2024-03-06 = %+v", met)
	}
	if met.CircleOccurrenceHeadcount == nil || *met.CircleOccurrenceHeadcount != 12 {
		t.Fatalf("head count = %v", met.CircleOccurrenceHeadcount)
	}
	if *met.CircleOccurrenceRegularCount != 10 || *met.CircleOccurrenceVisitorCount != 2 {
		t.Fatalf("counts = %d/%d", *met.CircleOccurrenceRegularCount, *met.CircleOccurrenceVisitorCount)
	}
	if met.CircleOccurrenceEventID == nil || *met.CircleOccurrenceEventID != "E1" {
		t.Fatalf("event id = %v", met.CircleOccurrenceEventID)
	}
	if len(met.CircleOccurrenceRawPayload) == 0 {
		t.Fatal("raw payload must be preserved")
	}

	for _, date := range []string{"2024-02-28", "2024-03-13"} {
		gap := store.occurrences[prefix+date]
		if gap == nil || gap.CircleOccurrenceStatus != reconcile.StatusNoRecord {
			t.Fatalf("%s = %+v, want no_record", date, gap)
		}
		if gap.CircleOccurrenceHeadcount != nil {
			t.Fatalf("%s carries a head count", date)
		}
	}

	attendees := store.attendees[store.occurrenceIDs[prefix+"2024-03-06"]]
	if len(attendees) != 12 {
		t.Fatalf("attendees = %d, want 12", len(attendees))
	}
	visitors := 0
	for _, a := range attendees {
		if a.CircleAttendeeType == "visitor" {
			visitors++
		}
	}
	if visitors != 2 {
		t.Fatalf("visitors = %d, want 2", visitors)
	}

	if len(store.roster) != 2 {
		t.Fatalf("roster = %d entries, want 2", len(store.roster))
	}
	if e := store.roster[prefix+"P2"]; e.CircleRosterEntryName != "Bob Breck" || e.CircleRosterEntryPhone != "555-0101" {
		t.Fatalf("roster P2 = %+v", e)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	leader := wednesdayLeader("E1")
	store := newFakeStore(leader)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	now := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, api, now)

	first := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})
	firstKeys := keysOf(store.occurrences)
	firstRoster := len(store.roster)

	second := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})
	if second.Synced != first.Synced || second.Errors != 0 {
		t.Fatalf("second run = %+v, first = %+v", second, first)
	}
	if got := keysOf(store.occurrences); !equalStrings(got, firstKeys) {
		t.Fatalf("occurrence keys changed: %v vs %v", got, firstKeys)
	}
	if len(store.roster) != firstRoster {
		t.Fatalf("roster grew on re-run: %d vs %d", len(store.roster), firstRoster)
	}
}

func TestRosterRefreshIsAdditive(t *testing.T) {
	leader := wednesdayLeader("E1")
	store := newFakeStore(leader)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	now := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, api, now)
	svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})
	if len(store.roster) != 2 {
		t.Fatalf("roster = %d entries, want 2", len(store.roster))
	}

	// CCB transiently omits P2; the cached row must survive.
	api.docs["group_participants"] = xmlDoc(t, `
<ccb_api><response><groups><group><participants>
  <participant><id>P1</id><name>Ann Alder</name></participant>
</participants></group></groups></response></ccb_api>`)
	svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})

	if len(store.roster) != 2 {
		t.Fatalf("roster = %d entries after partial refresh, want 2", len(store.roster))
	}
	if _, ok := store.roster[leader.CircleLeaderID.String()+"|P2"]; !ok {
		t.Fatal("omitted member must keep their cached row")
	}
}

func TestSyncAbortsOnEmptyEventIDCache(t *testing.T) {
	store := newFakeStore(wednesdayLeader()) // nil cache: never discovered
	api := &fakeAPI{docs: map[string]mxj.Map{}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})

	if res.Warning == "" || !strings.Contains(res.Warning, "discovery") {
		t.Fatalf("warning = %q", res.Warning)
	}
	if res.MissingEventIDs != 1 || res.Synced != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(api.calls) != 0 {
		t.Fatalf("calls = %v, want none", api.calls)
	}
}

func TestSyncSkipsLeadersAwaitingDiscovery(t *testing.T) {
	cached := wednesdayLeader("E1")
	pending := wednesdayLeader() // nil cache: never discovered
	store := newFakeStore(cached, pending)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	now := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, api, now)
	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})

	if res.MissingEventIDs != 1 {
		t.Fatalf("missing event ids = %d, want 1", res.MissingEventIDs)
	}
	// Only the cached leader's three Wednesdays: a leader with no event
	// list must not get no_record fills, since CCB was never asked.
	if res.Synced != 3 || res.NoRecordFilled != 2 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.RosterRefreshed != 1 {
		t.Fatalf("roster refreshed = %d, want 1", res.RosterRefreshed)
	}

	pendingPrefix := pending.CircleLeaderID.String() + "|"
	for key := range store.occurrences {
		if strings.HasPrefix(key, pendingPrefix) {
			t.Fatalf("occurrence %s written for an undiscovered leader", key)
		}
	}
	if _, ok := store.occurrences[cached.CircleLeaderID.String()+"|2024-03-06"]; !ok {
		t.Fatal("cached leader's attendance must still land")
	}
}

func TestSyncBackfillWindow(t *testing.T) {
	store := newFakeStore(wednesdayLeader("E1"))
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, `<ccb_api><response><events/></response></ccb_api>`),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	now := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, api, now)
	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeBackfill})

	if res.DateRange != "2023-09-15..2024-03-13" {
		t.Fatalf("date range = %s", res.DateRange)
	}
	// 180 days ending on a Wednesday: 26 gaps, every one filled.
	if res.Synced == 0 || res.Synced != res.NoRecordFilled {
		t.Fatalf("result = %+v", res)
	}
}

func TestSyncContinuesPastUpsertFailures(t *testing.T) {
	store := newFakeStore(wednesdayLeader("E1"))
	store.upsertErr = fmt.Errorf("connection refused")
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily})

	if res.Errors != 3 || res.Synced != 0 {
		t.Fatalf("result = %+v", res)
	}
	// The roster refresh still ran despite every occurrence failing.
	if res.RosterRefreshed != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSyncScopedToOneLeader(t *testing.T) {
	l1 := wednesdayLeader("E1")
	l2 := wednesdayLeader("E2")
	store := newFakeStore(l1, l2)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"attendance_profiles": xmlDoc(t, attendanceDoc),
		"group_participants":  xmlDoc(t, rosterDoc),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Sync(context.Background(), SyncOptions{Mode: ModeDaily, LeaderID: &l1.CircleLeaderID})

	if res.LeadersProcessed != 1 {
		t.Fatalf("result = %+v", res)
	}
	for key := range store.occurrences {
		if !strings.HasPrefix(key, l1.CircleLeaderID.String()) {
			t.Fatalf("wrote occurrence for wrong leader: %s", key)
		}
	}
}

/* ===============================
   Discovery
=================================*/

const profileListingDoc = `
<ccb_api><response><events>
  <event id="E1">
    <name>Midweek Circle</name>
    <group id="55"/>
    <occurrences><occurrence><start_datetime>2024-03-06 19:00:00</start_datetime></occurrence></occurrences>
  </event>
  <event id="E2">
    <name>All-Church Event</name>
    <occurrences><occurrence><start_datetime>2024-03-10 10:00:00</start_datetime></occurrence></occurrences>
  </event>
  <event id="E3">
    <name>Other Group</name>
    <group id="99"/>
    <occurrences><occurrence><start_datetime>2024-03-07 19:00:00</start_datetime></occurrence></occurrences>
  </event>
</events></response></ccb_api>`

func TestDiscoverPrefersStrictGroupMatches(t *testing.T) {
	leader := wednesdayLeader() // undiscovered
	store := newFakeStore(leader)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"event_profiles": xmlDoc(t, profileListingDoc),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Discover(context.Background(), DiscoverOptions{})

	if res.Processed != 1 || res.Discovered != 1 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
	// E2 has no group id; it must not leak into the cache while E1 matches.
	if got := store.savedEventIDs[leader.CircleLeaderID]; !equalStrings(got, []string{"E1"}) {
		t.Fatalf("cached ids = %v, want [E1]", got)
	}
	if api.callsFor("public_calendar_listing") != 0 {
		t.Fatal("calendar fallback must not run after a profile match")
	}
}

func TestDiscoverFallsBackToCalendarListing(t *testing.T) {
	leader := wednesdayLeader()
	store := newFakeStore(leader)
	api := &fakeAPI{
		docs: map[string]mxj.Map{
			"public_calendar_listing": xmlDoc(t, `
<ccb_api><response><items>
  <item><event_id>E7</event_id><event_name>Circle</event_name><group_id>55</group_id><date>2024-03-06</date><start_time>19:00</start_time></item>
</items></response></ccb_api>`),
		},
		errs: map[string]error{"event_profiles": fmt.Errorf("upstream 503")},
	}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Discover(context.Background(), DiscoverOptions{})

	if res.Discovered != 1 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
	if got := store.savedEventIDs[leader.CircleLeaderID]; !equalStrings(got, []string{"E7"}) {
		t.Fatalf("cached ids = %v, want [E7]", got)
	}
}

func TestDiscoverCachesEmptyResult(t *testing.T) {
	leader := wednesdayLeader()
	leader.CircleLeaderGroupID = "777" // no events anywhere
	store := newFakeStore(leader)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"event_profiles":          xmlDoc(t, `<ccb_api><response><events/></response></ccb_api>`),
		"public_calendar_listing": xmlDoc(t, `<ccb_api><response><items/></response></ccb_api>`),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Discover(context.Background(), DiscoverOptions{})

	if res.NoEvents != 1 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}
	ids, saved := store.savedEventIDs[leader.CircleLeaderID]
	if !saved || ids == nil || len(ids) != 0 {
		t.Fatalf("cache write-back = %v (saved=%v), want empty list", ids, saved)
	}
}

func TestDiscoverReportsErrorWhenEverySourceFails(t *testing.T) {
	leader := wednesdayLeader()
	store := newFakeStore(leader)
	api := &fakeAPI{errs: map[string]error{
		"event_profiles":          fmt.Errorf("upstream 503"),
		"public_calendar_listing": fmt.Errorf("upstream 503"),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Discover(context.Background(), DiscoverOptions{})

	if res.Errors != 1 || res.Discovered != 0 {
		t.Fatalf("result = %+v", res)
	}
	if _, saved := store.savedEventIDs[leader.CircleLeaderID]; saved {
		t.Fatal("a failed discovery must not touch the cache")
	}
	if len(res.Details) != 1 || res.Details[0].Error == "" {
		t.Fatalf("details = %+v", res.Details)
	}
}

func TestDiscoverSkipsAlreadyDiscoveredWithoutForce(t *testing.T) {
	discovered := wednesdayLeader("E1")
	fresh := wednesdayLeader()
	store := newFakeStore(discovered, fresh)
	api := &fakeAPI{docs: map[string]mxj.Map{
		"event_profiles": xmlDoc(t, profileListingDoc),
	}}

	svc := newTestService(store, api, time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC))
	res := svc.Discover(context.Background(), DiscoverOptions{})
	if res.Processed != 1 {
		t.Fatalf("processed = %d, want only the undiscovered leader", res.Processed)
	}

	res = svc.Discover(context.Background(), DiscoverOptions{Force: true})
	if res.Processed != 2 {
		t.Fatalf("forced processed = %d, want 2", res.Processed)
	}
}

/* ===============================
   Helpers
=================================*/

func keysOf(m map[string]*model.CircleOccurrenceModel) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
