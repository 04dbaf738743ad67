package casework

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/linnemanlabs/findtogether/internal/casefile"
	"github.com/linnemanlabs/findtogether/internal/casefile/memstore"
)

func TestVolunteerMessage(t *testing.T) {
	t.Parallel()

	want := "URGENT VOLUNTEER ALERT: Missing Person Ravi Kumar reported near your location (Connaught Place). " +
		"Please check your dashboard for search coordination instructions."
	if got := volunteerMessage("Ravi Kumar", "Connaught Place"); got != want {
		t.Errorf("volunteerMessage() = %q, want %q", got, want)
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	mem := memstore.New()
	store := newRecordingStore(mem)
	messenger := &fakeMessenger{}
	d := NewDispatcher(store, messenger, 4, time.Second, nil, NopMetrics())

	// Three matched volunteers, two with phones.
	matched := []casefile.Volunteer{
		{UserID: "u1", Name: "Meera", Phone: "+91-900"},
		{UserID: "u2", Name: "Arjun"},
		{UserID: "u3", Name: "Priya", Phone: "+91-901"},
	}

	res, err := d.Dispatch(context.Background(), 7, "Ravi Kumar", "Connaught Place", matched)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if res.DispatchID == "" {
		t.Error("DispatchID empty, want ULID")
	}
	if res.Count != 3 {
		t.Errorf("Count = %d, want 3", res.Count)
	}
	if len(res.Names) != 3 || res.Names[0] != "Meera" || res.Names[1] != "Arjun" || res.Names[2] != "Priya" {
		t.Errorf("Names = %v, want match order", res.Names)
	}
	if res.SendErrors != 0 {
		t.Errorf("SendErrors = %d, want 0", res.SendErrors)
	}

	// Only the volunteers with phones were messaged.
	if got := messenger.direct(); len(got) != 2 {
		t.Errorf("direct sends = %d, want 2: %v", len(got), got)
	}

	// One notification row per matched volunteer, phone or not, written
	// as a single batch and all sharing the dispatch ID.
	if got := store.callCount("CreateNotifications"); got != 1 {
		t.Errorf("CreateNotifications calls = %d, want 1", got)
	}
	rows := mem.Notifications()
	if len(rows) != 3 {
		t.Fatalf("len(notifications) = %d, want 3", len(rows))
	}
	for _, n := range rows {
		if n.DispatchID != res.DispatchID {
			t.Errorf("row dispatch ID = %q, want %q", n.DispatchID, res.DispatchID)
		}
		if n.CaseID != 7 {
			t.Errorf("row case ID = %d, want 7", n.CaseID)
		}
		if n.Title != "Urgent Search Request" {
			t.Errorf("row title = %q, want %q", n.Title, "Urgent Search Request")
		}
		if n.IsRead {
			t.Error("row IsRead = true, want false")
		}
		if !strings.Contains(n.Message, "Ravi Kumar") || !strings.Contains(n.Message, "Connaught Place") {
			t.Errorf("row message = %q, want person and location", n.Message)
		}
	}
}

func TestDispatch_EmptyMatchSet(t *testing.T) {
	t.Parallel()

	store := newRecordingStore(memstore.New())
	messenger := &fakeMessenger{}
	d := NewDispatcher(store, messenger, 4, time.Second, nil, NopMetrics())

	res, err := d.Dispatch(context.Background(), 7, "Ravi Kumar", "Connaught Place", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
	if got := store.callCount("CreateNotifications"); got != 0 {
		t.Errorf("CreateNotifications calls = %d, want 0 for empty set", got)
	}
	if got := messenger.direct(); len(got) != 0 {
		t.Errorf("direct sends = %d, want 0", len(got))
	}
}

func TestDispatch_SendFailureDoesNotBlockBatch(t *testing.T) {
	t.Parallel()

	mem := memstore.New()
	messenger := &fakeMessenger{failPhones: map[string]bool{"+91-900": true}}
	d := NewDispatcher(mem, messenger, 4, time.Second, nil, NopMetrics())

	matched := []casefile.Volunteer{
		{UserID: "u1", Name: "Meera", Phone: "+91-900"},
		{UserID: "u2", Name: "Priya", Phone: "+91-901"},
	}

	res, err := d.Dispatch(context.Background(), 7, "Ravi Kumar", "Connaught Place", matched)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.SendErrors != 1 {
		t.Errorf("SendErrors = %d, want 1", res.SendErrors)
	}
	// The failed send still gets its notification row.
	if rows := mem.Notifications(); len(rows) != 2 {
		t.Errorf("len(notifications) = %d, want 2", len(rows))
	}
	if got := messenger.direct(); len(got) != 1 {
		t.Errorf("successful direct sends = %d, want 1", len(got))
	}
}

func TestDispatch_RepeatAppendsRows(t *testing.T) {
	t.Parallel()

	mem := memstore.New()
	d := NewDispatcher(mem, &fakeMessenger{}, 4, time.Second, nil, NopMetrics())

	matched := []casefile.Volunteer{
		{UserID: "u1", Name: "Meera", Phone: "+91-900"},
		{UserID: "u2", Name: "Priya"},
	}

	first, err := d.Dispatch(context.Background(), 7, "Ravi Kumar", "Connaught Place", matched)
	if err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	second, err := d.Dispatch(context.Background(), 7, "Ravi Kumar", "Connaught Place", matched)
	if err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}

	// Rows are append-only; repeats never deduplicate, and each batch
	// carries its own dispatch ID.
	if first.DispatchID == second.DispatchID {
		t.Errorf("dispatch IDs equal (%q), want distinct per dispatch", first.DispatchID)
	}
	if rows := mem.Notifications(); len(rows) != 4 {
		t.Errorf("len(notifications) = %d, want 4 after repeat", len(rows))
	}
}
