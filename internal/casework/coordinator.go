package casework

import (
	"context"
	"fmt"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// CoordinationResult is the outcome of one volunteer coordination run.
type CoordinationResult struct {
	CaseID     int64    `json:"case_id"`
	DispatchID string   `json:"dispatch_id"`
	Count      int      `json:"count"`
	Names      []string `json:"names"`
	Summary    string   `json:"summary"`
}

// Coordinator composes the matcher and dispatcher for a case and
// search location.
type Coordinator struct {
	store      casefile.Store
	matcher    *Matcher
	dispatcher *Dispatcher
	logger     log.Logger
}

// NewCoordinator creates the coordination workflow.
func NewCoordinator(store casefile.Store, matcher *Matcher, dispatcher *Dispatcher, logger log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Nop()
	}
	return &Coordinator{store: store, matcher: matcher, dispatcher: dispatcher, logger: logger}
}

// CoordinateVolunteers loads the case, matches volunteers against the
// location, and dispatches notifications. The case lookup short-circuits
// before any matching or external call.
func (c *Coordinator) CoordinateVolunteers(ctx context.Context, caseID int64, location string) (*CoordinationResult, error) {
	detail, ok, err := c.store.GetCaseDetail(ctx, caseID)
	if err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "load case")
	}
	if !ok {
		return nil, casefile.Errorf(casefile.KindNotFound, "case %d not found", caseID)
	}

	matched, err := c.matcher.Match(ctx, location)
	if err != nil {
		return nil, err
	}

	dr, err := c.dispatcher.Dispatch(ctx, caseID, detail.Person.Name, location, matched)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Successfully contacted %d volunteers", dr.Count)
	if len(dr.Names) > 0 {
		summary += ": " + strings.Join(dr.Names, ", ")
	}

	return &CoordinationResult{
		CaseID:     caseID,
		DispatchID: dr.DispatchID,
		Count:      dr.Count,
		Names:      dr.Names,
		Summary:    summary,
	}, nil
}
