package casework

import (
	"context"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// ReportRequest carries the intake arguments for a new missing-person case.
type ReportRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Description      string `json:"description"`
	LastSeenLocation string `json:"last_seen_location"`
	LastSeenDate     string `json:"last_seen_date"`
	ReporterName     string `json:"reporter_name"`
	ReporterContact  string `json:"reporter_contact"`
	ImageURL         string `json:"image_url,omitempty"`
}

// Intake validates and persists a new Person/Photo/Case graph.
type Intake struct {
	store   casefile.Store
	logger  log.Logger
	metrics *Metrics
}

// NewIntake creates the intake workflow.
func NewIntake(store casefile.Store, logger log.Logger, metrics *Metrics) *Intake {
	if logger == nil {
		logger = log.Nop()
	}
	return &Intake{store: store, logger: logger, metrics: metrics}
}

// ReportMissingPerson performs, in order, a Person insert, a conditional
// Photo insert when an image URL is supplied, and a Case insert in status
// New. The three writes are individual store calls: a failure partway
// through can leave an orphaned Person behind, which is reported, not
// reconciled. Returns the new case ID.
func (in *Intake) ReportMissingPerson(ctx context.Context, req *ReportRequest) (int64, error) {
	if err := req.validate(); err != nil {
		in.metrics.IntakesTotal.WithLabelValues("invalid").Inc()
		return 0, err
	}

	person := &casefile.Person{
		Name:             req.Name,
		Age:              req.Age,
		Description:      req.Description,
		LastSeenLocation: req.LastSeenLocation,
		LastSeenDate:     req.LastSeenDate,
	}
	if err := in.store.CreatePerson(ctx, person); err != nil {
		in.metrics.IntakesTotal.WithLabelValues("error").Inc()
		return 0, casefile.Wrap(casefile.KindPersistence, err, "create person")
	}

	if req.ImageURL != "" {
		photo := &casefile.Photo{PersonID: person.ID, ImageURL: req.ImageURL}
		if err := in.store.CreatePhoto(ctx, photo); err != nil {
			in.metrics.IntakesTotal.WithLabelValues("error").Inc()
			return 0, casefile.Wrap(casefile.KindPersistence, err, "create photo")
		}
	}

	c := &casefile.Case{
		PersonID:    person.ID,
		Status:      casefile.StatusNew,
		ReportedBy:  req.ReporterName,
		ContactName: req.ReporterName,
		ContactRole: "Reporter",
	}
	if err := in.store.CreateCase(ctx, c); err != nil {
		in.metrics.IntakesTotal.WithLabelValues("error").Inc()
		return 0, casefile.Wrap(casefile.KindPersistence, err, "create case")
	}

	in.metrics.IntakesTotal.WithLabelValues("ok").Inc()
	in.logger.Info(ctx, "case created",
		"case_id", c.ID,
		"person_id", person.ID,
		"has_photo", req.ImageURL != "",
	)
	return c.ID, nil
}

func (r *ReportRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return casefile.Errorf(casefile.KindValidation, "name is required")
	case r.Age < 0:
		return casefile.Errorf(casefile.KindValidation, "age must not be negative")
	case strings.TrimSpace(r.LastSeenLocation) == "":
		return casefile.Errorf(casefile.KindValidation, "last seen location is required")
	}
	return nil
}
