package casefile

import "time"

// CaseStatus tracks where a case is in its lifecycle.
type CaseStatus string

const (
	// StatusNew means freshly reported, not yet worked. Intake only ever
	// produces this status.
	StatusNew CaseStatus = "New"

	// StatusActive means a search is underway
	StatusActive CaseStatus = "Active"

	// StatusResolved means the person was found
	StatusResolved CaseStatus = "Resolved"

	// StatusClosed means the case was closed without resolution
	StatusClosed CaseStatus = "Closed"
)

// Person is the subject of a missing-person report.
type Person struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Description      string    `json:"description"`
	LastSeenLocation string    `json:"last_seen_location"`
	LastSeenDate     string    `json:"last_seen_date"` // calendar date, YYYY-MM-DD
	CreatedAt        time.Time `json:"created_at"`
}

// Photo is an image of a Person. A person may have any number of photos.
type Photo struct {
	ID       int64  `json:"id"`
	PersonID int64  `json:"person_id"`
	ImageURL string `json:"image_url"`
}

// Case is one tracked missing-person report. A case always references
// exactly one person; a person may accumulate cases through re-reports.
type Case struct {
	ID          int64      `json:"id"`
	PersonID    int64      `json:"person_id"`
	Status      CaseStatus `json:"status"`
	ReportedBy  string     `json:"reported_by"`
	ContactName string     `json:"contact_name"`
	ContactRole string     `json:"contact_role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CaseDetail is a case joined with its person and the person's photos.
type CaseDetail struct {
	Case   Case    `json:"case"`
	Person Person  `json:"person"`
	Photos []Photo `json:"photos,omitempty"`
}

// Volunteer is a registered searcher who can be matched to a location
// and notified.
type Volunteer struct {
	ID              int64    `json:"id"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone,omitempty"`
	LocationAddress string   `json:"location_address,omitempty"`
	LocationLat     *float64 `json:"location_lat,omitempty"`
	LocationLng     *float64 `json:"location_lng,omitempty"`
}

// HasCoordinates reports whether the volunteer carries a stored position.
func (v *Volunteer) HasCoordinates() bool {
	return v.LocationLat != nil && v.LocationLng != nil
}

// Notification is one append-only row produced by a dispatch event.
// Rows are never deduplicated across dispatches; DispatchID groups the
// rows written by a single batch.
type Notification struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	CaseID     int64     `json:"case_id"`
	DispatchID string    `json:"dispatch_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationDetail is a notification joined with the case it refers to
// and that case's person, for rendering a volunteer's feed.
type NotificationDetail struct {
	Notification Notification `json:"notification"`
	Case         Case         `json:"case"`
	Person       Person       `json:"person"`
}

// Sighting is a public report of a possible sighting, recorded with its
// photo so it can be compared against open cases.
type Sighting struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VerificationStatus tracks manual review of a potential match.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationConfirmed VerificationStatus = "confirmed"
	VerificationRejected  VerificationStatus = "rejected"
)

// PotentialMatch links a sighting to a case photo it may depict,
// with the comparison confidence that produced it.
type PotentialMatch struct {
	ID                 int64              `json:"id"`
	SightingID         int64              `json:"sighting_id"`
	PhotoID            int64              `json:"photo_id"`
	ConfidenceScore    float64            `json:"confidence_score"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}
