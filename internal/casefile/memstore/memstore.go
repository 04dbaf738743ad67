// Package memstore provides an in-memory implementation of casefile.Store.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// Store holds case records in memory. Suitable for dev/testing.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	persons map[int64]*casefile.Person
	photos  []casefile.Photo
	cases   map[int64]*casefile.Case

	volunteers    []casefile.Volunteer
	notifications []casefile.Notification
	sightings     map[int64]*casefile.Sighting
	matches       []casefile.PotentialMatch
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		persons:   make(map[int64]*casefile.Person),
		cases:     make(map[int64]*casefile.Case),
		sightings: make(map[int64]*casefile.Sighting),
	}
}

func (s *Store) assignID() int64 {
	s.nextID++
	return s.nextID
}

// CreatePerson inserts a copy of p and assigns its ID.
func (s *Store) CreatePerson(_ context.Context, p *casefile.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.assignID()
	p.CreatedAt = time.Now()
	cp := *p
	s.persons[p.ID] = &cp
	return nil
}

// CreatePhoto inserts a copy of ph and assigns its ID. The referenced
// person must exist.
func (s *Store) CreatePhoto(_ context.Context, ph *casefile.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[ph.PersonID]; !ok {
		return casefile.Errorf(casefile.KindPersistence, "photo references unknown person %d", ph.PersonID)
	}
	ph.ID = s.assignID()
	s.photos = append(s.photos, *ph)
	return nil
}

// CreateCase inserts a copy of c and assigns its ID. The referenced
// person must exist.
func (s *Store) CreateCase(_ context.Context, c *casefile.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[c.PersonID]; !ok {
		return casefile.Errorf(casefile.KindPersistence, "case references unknown person %d", c.PersonID)
	}
	c.ID = s.assignID()
	c.CreatedAt = time.Now()
	cp := *c
	s.cases[c.ID] = &cp
	return nil
}

// GetCaseDetail returns a copy of the case joined with its person and photos.
func (s *Store) GetCaseDetail(_ context.Context, caseID int64) (*casefile.CaseDetail, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, false, nil
	}
	p, ok := s.persons[c.PersonID]
	if !ok {
		return nil, false, casefile.Errorf(casefile.KindPersistence, "case %d references unknown person %d", caseID, c.PersonID)
	}

	detail := &casefile.CaseDetail{Case: *c, Person: *p}
	for _, ph := range s.photos {
		if ph.PersonID == p.ID {
			detail.Photos = append(detail.Photos, ph)
		}
	}
	return detail, true, nil
}

// ListVolunteers returns volunteers in insertion order.
func (s *Store) ListVolunteers(_ context.Context) ([]casefile.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]casefile.Volunteer, len(s.volunteers))
	copy(out, s.volunteers)
	return out, nil
}

// AddVolunteer seeds a volunteer directly, assigning its ID. Test/dev helper.
func (s *Store) AddVolunteer(v casefile.Volunteer) casefile.Volunteer {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.assignID()
	s.volunteers = append(s.volunteers, v)
	return v
}

// UpsertVolunteerLocation creates or updates the profile keyed by UserID.
func (s *Store) UpsertVolunteerLocation(_ context.Context, v *casefile.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.volunteers {
		if s.volunteers[i].UserID == v.UserID {
			s.volunteers[i].LocationAddress = v.LocationAddress
			s.volunteers[i].LocationLat = v.LocationLat
			s.volunteers[i].LocationLng = v.LocationLng
			if v.Name != "" {
				s.volunteers[i].Name = v.Name
			}
			v.ID = s.volunteers[i].ID
			return nil
		}
	}
	v.ID = s.assignID()
	s.volunteers = append(s.volunteers, *v)
	return nil
}

// CreateNotifications appends all rows as one batch.
func (s *Store) CreateNotifications(_ context.Context, ns []casefile.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range ns {
		ns[i].ID = s.assignID()
		ns[i].CreatedAt = now
		s.notifications = append(s.notifications, ns[i])
	}
	return nil
}

// ListNotificationsByUser returns the user's notifications newest first,
// joined with their case and person.
func (s *Store) ListNotificationsByUser(_ context.Context, userID string) ([]casefile.NotificationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []casefile.NotificationDetail
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID {
			continue
		}
		c, ok := s.cases[n.CaseID]
		if !ok {
			return nil, casefile.Errorf(casefile.KindPersistence, "notification %d references unknown case %d", n.ID, n.CaseID)
		}
		p, ok := s.persons[c.PersonID]
		if !ok {
			return nil, casefile.Errorf(casefile.KindPersistence, "case %d references unknown person %d", c.ID, c.PersonID)
		}
		out = append(out, casefile.NotificationDetail{Notification: n, Case: *c, Person: *p})
	}
	return out, nil
}

// Notifications returns a copy of all notification rows. Test helper.
func (s *Store) Notifications() []casefile.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]casefile.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// CreateSighting inserts a copy of the sighting, assigning its ID.
func (s *Store) CreateSighting(_ context.Context, sg *casefile.Sighting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg.ID = s.assignID()
	sg.CreatedAt = time.Now()
	cp := *sg
	s.sightings[sg.ID] = &cp
	return nil
}

// ListActiveCasePhotos returns photos whose person has a New or Active case.
func (s *Store) ListActiveCasePhotos(_ context.Context) ([]casefile.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make(map[int64]bool)
	for _, c := range s.cases {
		if c.Status == casefile.StatusNew || c.Status == casefile.StatusActive {
			active[c.PersonID] = true
		}
	}

	var out []casefile.Photo
	for _, ph := range s.photos {
		if active[ph.PersonID] {
			out = append(out, ph)
		}
	}
	return out, nil
}

// CreatePotentialMatches appends all rows as one batch.
func (s *Store) CreatePotentialMatches(_ context.Context, ms []casefile.PotentialMatch) error {
	if len(ms) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ms {
		ms[i].ID = s.assignID()
		s.matches = append(s.matches, ms[i])
	}
	return nil
}

// PotentialMatches returns a copy of all match rows. Test helper.
func (s *Store) PotentialMatches() []casefile.PotentialMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]casefile.PotentialMatch, len(s.matches))
	copy(out, s.matches)
	return out
}
