// Package pgstore provides a PostgreSQL implementation of casefile.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

var tracer = otel.Tracer("github.com/linnemanlabs/findtogether/internal/casefile/pgstore")

//go:embed schema.sql
var schema string

// Store persists case records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store. The pool stays owned
// by the caller.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// CreatePerson inserts a person and scans the assigned ID back into p.
func (s *Store) CreatePerson(ctx context.Context, p *casefile.Person) error {
	ctx, span := startSpan(ctx, "pgstore.CreatePerson", "INSERT")
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO persons (name, age, description, last_seen_location, last_seen_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.Name, p.Age, p.Description, p.LastSeenLocation, p.LastSeenDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert person"))
	}
	return nil
}

// CreatePhoto inserts a photo row referencing an existing person.
func (s *Store) CreatePhoto(ctx context.Context, ph *casefile.Photo) error {
	ctx, span := startSpan(ctx, "pgstore.CreatePhoto", "INSERT")
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO photos (person_id, image_url) VALUES ($1, $2) RETURNING id`,
		ph.PersonID, ph.ImageURL,
	).Scan(&ph.ID)
	if err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert photo"))
	}
	return nil
}

// CreateCase inserts a case row referencing an existing person.
func (s *Store) CreateCase(ctx context.Context, c *casefile.Case) error {
	ctx, span := startSpan(ctx, "pgstore.CreateCase", "INSERT")
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO cases (person_id, status, reported_by, contact_name, contact_role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.PersonID, string(c.Status), c.ReportedBy, c.ContactName, c.ContactRole,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert case"))
	}
	return nil
}

// GetCaseDetail loads the case joined with its person, then the person's
// photos. Returns (nil, false, nil) when the case does not exist.
func (s *Store) GetCaseDetail(ctx context.Context, caseID int64) (*casefile.CaseDetail, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.GetCaseDetail", "SELECT")
	defer span.End()

	var (
		d      casefile.CaseDetail
		status string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT c.id, c.person_id, c.status, c.reported_by, c.contact_name, c.contact_role, c.created_at,
		        p.id, p.name, p.age, p.description, p.last_seen_location, p.last_seen_date, p.created_at
		 FROM cases c
		 JOIN persons p ON p.id = c.person_id
		 WHERE c.id = $1`,
		caseID,
	).Scan(
		&d.Case.ID, &d.Case.PersonID, &status, &d.Case.ReportedBy, &d.Case.ContactName, &d.Case.ContactRole, &d.Case.CreatedAt,
		&d.Person.ID, &d.Person.Name, &d.Person.Age, &d.Person.Description, &d.Person.LastSeenLocation, &d.Person.LastSeenDate, &d.Person.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "select case"))
	}
	d.Case.Status = casefile.CaseStatus(status)

	rows, err := s.pool.Query(ctx,
		`SELECT id, person_id, image_url FROM photos WHERE person_id = $1 ORDER BY id`,
		d.Person.ID,
	)
	if err != nil {
		return nil, false, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "select photos"))
	}
	defer rows.Close()

	for rows.Next() {
		var ph casefile.Photo
		if err := rows.Scan(&ph.ID, &ph.PersonID, &ph.ImageURL); err != nil {
			return nil, false, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "scan photo"))
		}
		d.Photos = append(d.Photos, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, false, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "iterate photos"))
	}

	return &d, true, nil
}

// ListVolunteers returns all volunteers ordered by ID.
func (s *Store) ListVolunteers(ctx context.Context) ([]casefile.Volunteer, error) {
	ctx, span := startSpan(ctx, "pgstore.ListVolunteers", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, phone, location_address, location_lat, location_lng
		 FROM volunteers ORDER BY id`,
	)
	if err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "select volunteers"))
	}
	defer rows.Close()

	var out []casefile.Volunteer
	for rows.Next() {
		var v casefile.Volunteer
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &v.Phone, &v.LocationAddress, &v.LocationLat, &v.LocationLng); err != nil {
			return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "scan volunteer"))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "iterate volunteers"))
	}
	return out, nil
}

// UpsertVolunteerLocation creates or updates the profile keyed by user ID.
func (s *Store) UpsertVolunteerLocation(ctx context.Context, v *casefile.Volunteer) error {
	ctx, span := startSpan(ctx, "pgstore.UpsertVolunteerLocation", "UPSERT")
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO volunteers (user_id, name, phone, location_address, location_lat, location_lng)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
			location_address = EXCLUDED.location_address,
			location_lat     = EXCLUDED.location_lat,
			location_lng     = EXCLUDED.location_lng,
			name             = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE volunteers.name END
		 RETURNING id`,
		v.UserID, v.Name, v.Phone, v.LocationAddress, v.LocationLat, v.LocationLng,
	).Scan(&v.ID)
	if err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "upsert volunteer"))
	}
	return nil
}

// CreateNotifications inserts all rows in one batched round trip.
func (s *Store) CreateNotifications(ctx context.Context, ns []casefile.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	ctx, span := startSpan(ctx, "pgstore.CreateNotifications", "INSERT")
	defer span.End()

	batch := &pgx.Batch{}
	for i := range ns {
		batch.Queue(
			`INSERT INTO notifications (user_id, case_id, dispatch_id, title, message, is_read)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			ns[i].UserID, ns[i].CaseID, ns[i].DispatchID, ns[i].Title, ns[i].Message, ns[i].IsRead,
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert notifications"))
	}
	return nil
}

// ListNotificationsByUser returns the user's notifications newest first,
// each joined with its case and person.
func (s *Store) ListNotificationsByUser(ctx context.Context, userID string) ([]casefile.NotificationDetail, error) {
	ctx, span := startSpan(ctx, "pgstore.ListNotificationsByUser", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT n.id, n.user_id, n.case_id, n.dispatch_id, n.title, n.message, n.is_read, n.created_at,
		        c.id, c.person_id, c.status, c.reported_by, c.contact_name, c.contact_role, c.created_at,
		        p.id, p.name, p.age, p.description, p.last_seen_location, p.last_seen_date, p.created_at
		 FROM notifications n
		 JOIN cases c ON c.id = n.case_id
		 JOIN persons p ON p.id = c.person_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id DESC`,
		userID,
	)
	if err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "select notifications"))
	}
	defer rows.Close()

	var out []casefile.NotificationDetail
	for rows.Next() {
		var (
			d      casefile.NotificationDetail
			status string
		)
		if err := rows.Scan(
			&d.Notification.ID, &d.Notification.UserID, &d.Notification.CaseID, &d.Notification.DispatchID,
			&d.Notification.Title, &d.Notification.Message, &d.Notification.IsRead, &d.Notification.CreatedAt,
			&d.Case.ID, &d.Case.PersonID, &status, &d.Case.ReportedBy, &d.Case.ContactName, &d.Case.ContactRole, &d.Case.CreatedAt,
			&d.Person.ID, &d.Person.Name, &d.Person.Age, &d.Person.Description, &d.Person.LastSeenLocation, &d.Person.LastSeenDate, &d.Person.CreatedAt,
		); err != nil {
			return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "scan notification"))
		}
		d.Case.Status = casefile.CaseStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "iterate notifications"))
	}
	return out, nil
}

// CreateSighting inserts a sighting and scans the assigned ID back.
func (s *Store) CreateSighting(ctx context.Context, sg *casefile.Sighting) error {
	ctx, span := startSpan(ctx, "pgstore.CreateSighting", "INSERT")
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO sightings (image_url, location, notes)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		sg.ImageURL, sg.Location, sg.Notes,
	).Scan(&sg.ID, &sg.CreatedAt)
	if err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert sighting"))
	}
	return nil
}

// ListActiveCasePhotos returns photos of persons with a New or Active case.
func (s *Store) ListActiveCasePhotos(ctx context.Context) ([]casefile.Photo, error) {
	ctx, span := startSpan(ctx, "pgstore.ListActiveCasePhotos", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ph.id, ph.person_id, ph.image_url
		 FROM photos ph
		 JOIN cases c ON c.person_id = ph.person_id
		 WHERE c.status IN ($1, $2)
		 ORDER BY ph.id`,
		string(casefile.StatusNew), string(casefile.StatusActive),
	)
	if err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "select active photos"))
	}
	defer rows.Close()

	var out []casefile.Photo
	for rows.Next() {
		var ph casefile.Photo
		if err := rows.Scan(&ph.ID, &ph.PersonID, &ph.ImageURL); err != nil {
			return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "scan photo"))
		}
		out = append(out, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "iterate photos"))
	}
	return out, nil
}

// CreatePotentialMatches inserts all rows in one batched round trip.
func (s *Store) CreatePotentialMatches(ctx context.Context, ms []casefile.PotentialMatch) error {
	if len(ms) == 0 {
		return nil
	}
	ctx, span := startSpan(ctx, "pgstore.CreatePotentialMatches", "INSERT")
	defer span.End()

	batch := &pgx.Batch{}
	for i := range ms {
		batch.Queue(
			`INSERT INTO potential_matches (sighting_id, photo_id, confidence_score, verification_status)
			 VALUES ($1, $2, $3, $4)`,
			ms[i].SightingID, ms[i].PhotoID, ms[i].ConfidenceScore, string(ms[i].VerificationStatus),
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return spanErr(span, casefile.Wrap(casefile.KindPersistence, err, "insert potential matches"))
	}
	return nil
}
