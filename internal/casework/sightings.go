package casework

import (
	"context"
	"strings"
	"sync"

	"github.com/linnemanlabs/go-core/log"
	"golang.org/x/sync/errgroup"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// MatchConfidenceThreshold is the minimum comparison confidence for a
// potential match to be recorded.
const MatchConfidenceThreshold = 0.8

// SightingReport carries a public sighting submission.
type SightingReport struct {
	ImageURL string `json:"image_url"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// SightingResult reports the stored sighting and any potential matches
// found against open cases.
type SightingResult struct {
	SightingID int64                     `json:"sighting_id"`
	Compared   int                       `json:"compared"`
	Matches    []casefile.PotentialMatch `json:"matches,omitempty"`
}

// Sightings records sighting reports and compares them against photos
// from open cases.
type Sightings struct {
	store   casefile.Store
	faces   FaceMatcher
	workers int
	logger  log.Logger
	metrics *Metrics
}

// NewSightings creates the sighting workflow. workers <= 0 falls back to
// the dispatch default.
func NewSightings(store casefile.Store, faces FaceMatcher, workers int, logger log.Logger, metrics *Metrics) *Sightings {
	if logger == nil {
		logger = log.Nop()
	}
	if workers <= 0 {
		workers = DefaultDispatchWorkers
	}
	return &Sightings{store: store, faces: faces, workers: workers, logger: logger, metrics: metrics}
}

// ReportSighting persists the sighting, compares its photo against every
// photo belonging to an open case with bounded fan-out, and records the
// comparisons that clear the confidence threshold as one batch of
// potential matches. A comparison failure on one photo never aborts the
// siblings.
func (s *Sightings) ReportSighting(ctx context.Context, report *SightingReport) (*SightingResult, error) {
	if strings.TrimSpace(report.ImageURL) == "" {
		return nil, casefile.Errorf(casefile.KindValidation, "image url is required")
	}

	sighting := &casefile.Sighting{
		ImageURL: report.ImageURL,
		Location: report.Location,
		Notes:    report.Notes,
	}
	if err := s.store.CreateSighting(ctx, sighting); err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "create sighting")
	}
	s.metrics.SightingsTotal.Inc()

	// Without a face matcher configured the sighting is recorded as-is.
	var photos []casefile.Photo
	if s.faces != nil {
		var err error
		photos, err = s.store.ListActiveCasePhotos(ctx)
		if err != nil {
			return nil, casefile.Wrap(casefile.KindPersistence, err, "list active photos")
		}
	}

	matches := s.compareAll(ctx, sighting, photos)

	if len(matches) > 0 {
		if err := s.store.CreatePotentialMatches(ctx, matches); err != nil {
			return nil, casefile.Wrap(casefile.KindPersistence, err, "insert potential matches")
		}
		s.metrics.PotentialMatchesTotal.Add(float64(len(matches)))
	}

	s.logger.Info(ctx, "sighting processed",
		"sighting_id", sighting.ID,
		"compared", len(photos),
		"matches", len(matches),
	)
	return &SightingResult{
		SightingID: sighting.ID,
		Compared:   len(photos),
		Matches:    matches,
	}, nil
}

// compareAll runs the photo comparisons with bounded fan-out. Tasks
// always return nil so one adapter failure never cancels the siblings.
func (s *Sightings) compareAll(ctx context.Context, sighting *casefile.Sighting, photos []casefile.Photo) []casefile.PotentialMatch {
	if s.faces == nil {
		return nil
	}

	var (
		mu      sync.Mutex
		matches []casefile.PotentialMatch
	)

	g := &errgroup.Group{}
	g.SetLimit(s.workers)
	for i := range photos {
		photo := photos[i]
		g.Go(func() error {
			cmp, err := s.faces.Compare(ctx, sighting.ImageURL, photo.ImageURL)
			if err != nil {
				s.metrics.FaceComparisonsTotal.WithLabelValues("error").Inc()
				s.logger.Error(ctx, err, "face comparison failed", "photo_id", photo.ID)
				return nil
			}
			s.metrics.FaceComparisonsTotal.WithLabelValues("ok").Inc()

			if !cmp.Match || cmp.Confidence < MatchConfidenceThreshold {
				return nil
			}
			mu.Lock()
			matches = append(matches, casefile.PotentialMatch{
				SightingID:         sighting.ID,
				PhotoID:            photo.ID,
				ConfidenceScore:    cmp.Confidence,
				VerificationStatus: casefile.VerificationPending,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return matches
}
