package casework

import (
	"context"
	"errors"
	"sync"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// recordingStore wraps a real store, counting calls per operation and
// optionally failing selected ones.
type recordingStore struct {
	casefile.Store

	mu     sync.Mutex
	calls  map[string]int
	failOn map[string]error
}

func newRecordingStore(inner casefile.Store) *recordingStore {
	return &recordingStore{
		Store:  inner,
		calls:  make(map[string]int),
		failOn: make(map[string]error),
	}
}

func (r *recordingStore) count(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	return r.failOn[op]
}

func (r *recordingStore) callCount(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *recordingStore) CreatePerson(ctx context.Context, p *casefile.Person) error {
	if err := r.count("CreatePerson"); err != nil {
		return err
	}
	return r.Store.CreatePerson(ctx, p)
}

func (r *recordingStore) CreatePhoto(ctx context.Context, ph *casefile.Photo) error {
	if err := r.count("CreatePhoto"); err != nil {
		return err
	}
	return r.Store.CreatePhoto(ctx, ph)
}

func (r *recordingStore) CreateCase(ctx context.Context, c *casefile.Case) error {
	if err := r.count("CreateCase"); err != nil {
		return err
	}
	return r.Store.CreateCase(ctx, c)
}

func (r *recordingStore) GetCaseDetail(ctx context.Context, caseID int64) (*casefile.CaseDetail, bool, error) {
	if err := r.count("GetCaseDetail"); err != nil {
		return nil, false, err
	}
	return r.Store.GetCaseDetail(ctx, caseID)
}

func (r *recordingStore) ListVolunteers(ctx context.Context) ([]casefile.Volunteer, error) {
	if err := r.count("ListVolunteers"); err != nil {
		return nil, err
	}
	return r.Store.ListVolunteers(ctx)
}

func (r *recordingStore) UpsertVolunteerLocation(ctx context.Context, v *casefile.Volunteer) error {
	if err := r.count("UpsertVolunteerLocation"); err != nil {
		return err
	}
	return r.Store.UpsertVolunteerLocation(ctx, v)
}

func (r *recordingStore) CreateNotifications(ctx context.Context, ns []casefile.Notification) error {
	if err := r.count("CreateNotifications"); err != nil {
		return err
	}
	return r.Store.CreateNotifications(ctx, ns)
}

func (r *recordingStore) ListNotificationsByUser(ctx context.Context, userID string) ([]casefile.NotificationDetail, error) {
	if err := r.count("ListNotificationsByUser"); err != nil {
		return nil, err
	}
	return r.Store.ListNotificationsByUser(ctx, userID)
}

func (r *recordingStore) CreateSighting(ctx context.Context, s *casefile.Sighting) error {
	if err := r.count("CreateSighting"); err != nil {
		return err
	}
	return r.Store.CreateSighting(ctx, s)
}

func (r *recordingStore) ListActiveCasePhotos(ctx context.Context) ([]casefile.Photo, error) {
	if err := r.count("ListActiveCasePhotos"); err != nil {
		return nil, err
	}
	return r.Store.ListActiveCasePhotos(ctx)
}

func (r *recordingStore) CreatePotentialMatches(ctx context.Context, ms []casefile.PotentialMatch) error {
	if err := r.count("CreatePotentialMatches"); err != nil {
		return err
	}
	return r.Store.CreatePotentialMatches(ctx, ms)
}

// fakeBroadcaster records posted messages and optionally fails.
type fakeBroadcaster struct {
	name string
	err  error

	mu       sync.Mutex
	messages []string
}

func (b *fakeBroadcaster) Name() string { return b.name }

func (b *fakeBroadcaster) Post(ctx context.Context, message string) error {
	if b.err != nil {
		return b.err
	}
	// Honor cancellation so timeout behavior is observable in tests.
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
	return nil
}

func (b *fakeBroadcaster) posted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	copy(out, b.messages)
	return out
}

// blockingBroadcaster never completes until its context expires.
type blockingBroadcaster struct{ name string }

func (b *blockingBroadcaster) Name() string { return b.name }

func (b *blockingBroadcaster) Post(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

// fakeMessenger records group and direct sends and optionally fails
// direct sends to selected phones.
type fakeMessenger struct {
	groupErr    error
	failPhones  map[string]bool
	directErr   error
	mu          sync.Mutex
	groupSends  []string // "groupID|message"
	directSends []string // "phone|message"
}

func (m *fakeMessenger) SendGroup(_ context.Context, groupID, message string) error {
	if m.groupErr != nil {
		return m.groupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupSends = append(m.groupSends, groupID+"|"+message)
	return nil
}

func (m *fakeMessenger) SendDirect(_ context.Context, phone, message string) error {
	if m.failPhones[phone] {
		if m.directErr != nil {
			return m.directErr
		}
		return errors.New("send failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directSends = append(m.directSends, phone+"|"+message)
	return nil
}

func (m *fakeMessenger) direct() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.directSends))
	copy(out, m.directSends)
	return out
}

func (m *fakeMessenger) group() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.groupSends))
	copy(out, m.groupSends)
	return out
}

// fakeGeocoder resolves every location to fixed coordinates, or fails.
type fakeGeocoder struct {
	coords Coordinates
	err    error

	mu    sync.Mutex
	calls int
}

func (g *fakeGeocoder) Resolve(_ context.Context, _ string) (Coordinates, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return Coordinates{}, g.err
	}
	return g.coords, nil
}

func (g *fakeGeocoder) StaticMapURL(c Coordinates) string {
	return "https://maps.test/static?lat=28.6304&lng=77.2177"
}

func (g *fakeGeocoder) resolveCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeFaces compares by looking up the case photo URL in a fixed table.
type fakeFaces struct {
	results map[string]FaceComparison // keyed by case photo URL
	errs    map[string]error
}

func (f *fakeFaces) Compare(_ context.Context, _, photoURL string) (FaceComparison, error) {
	if err := f.errs[photoURL]; err != nil {
		return FaceComparison{}, err
	}
	return f.results[photoURL], nil
}

func ptrFloat(v float64) *float64 { return &v }
