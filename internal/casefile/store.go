package casefile

import "context"

// Store is the persistence gateway for case records. Implementations
// assign IDs and creation timestamps on insert, mutating the passed
// record. Each call is individually atomic; there is no cross-call
// transaction spanning a workflow's writes.
type Store interface {
	// CreatePerson inserts a person and assigns p.ID.
	CreatePerson(ctx context.Context, p *Person) error

	// CreatePhoto inserts a photo referencing an existing person.
	CreatePhoto(ctx context.Context, ph *Photo) error

	// CreateCase inserts a case referencing an existing person.
	CreateCase(ctx context.Context, c *Case) error

	// GetCaseDetail loads a case joined with its person and photos.
	GetCaseDetail(ctx context.Context, caseID int64) (*CaseDetail, bool, error)

	// ListVolunteers returns all volunteers in stable store order.
	ListVolunteers(ctx context.Context) ([]Volunteer, error)

	// UpsertVolunteerLocation creates or updates the volunteer profile
	// keyed by v.UserID, setting address and coordinates.
	UpsertVolunteerLocation(ctx context.Context, v *Volunteer) error

	// CreateNotifications inserts all rows as one batch. An empty slice
	// is a no-op.
	CreateNotifications(ctx context.Context, ns []Notification) error

	// ListNotificationsByUser returns the user's notifications newest
	// first, each joined with its case and person.
	ListNotificationsByUser(ctx context.Context, userID string) ([]NotificationDetail, error)

	// CreateSighting inserts a sighting and assigns s.ID.
	CreateSighting(ctx context.Context, s *Sighting) error

	// ListActiveCasePhotos returns photos of persons who have at least
	// one case in status New or Active.
	ListActiveCasePhotos(ctx context.Context) ([]Photo, error)

	// CreatePotentialMatches inserts all rows as one batch. An empty
	// slice is a no-op.
	CreatePotentialMatches(ctx context.Context, ms []PotentialMatch) error
}
