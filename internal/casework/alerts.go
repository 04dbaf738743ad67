package casework

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

// DefaultChannelTimeout bounds each alert channel dispatch.
const DefaultChannelTimeout = 5 * time.Second

// ChannelResult is the outcome of dispatching the alert to one channel.
type ChannelResult struct {
	Channel  string  `json:"channel"`
	OK       bool    `json:"ok"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"duration_seconds"`
}

// BroadcastResult reports the alert message and every channel outcome.
// The call as a whole succeeds once all dispatches have been attempted,
// even when individual channels failed.
type BroadcastResult struct {
	CaseID   int64           `json:"case_id"`
	Message  string          `json:"message"`
	Channels []ChannelResult `json:"channels"`
}

// Failed returns the channels that did not accept the alert.
func (r *BroadcastResult) Failed() []ChannelResult {
	var out []ChannelResult
	for _, c := range r.Channels {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

// Alerts formats and fans out public alerts for a case.
type Alerts struct {
	store        casefile.Store
	broadcasters []Broadcaster
	messenger    Messenger
	groupID      string
	timeout      time.Duration
	logger       log.Logger
	metrics      *Metrics
}

// NewAlerts creates the alert broadcast workflow. groupID is the
// community-alerts group the messenger targets.
func NewAlerts(store casefile.Store, broadcasters []Broadcaster, messenger Messenger, groupID string, timeout time.Duration, logger log.Logger, metrics *Metrics) *Alerts {
	if logger == nil {
		logger = log.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &Alerts{
		store:        store,
		broadcasters: broadcasters,
		messenger:    messenger,
		groupID:      groupID,
		timeout:      timeout,
		logger:       logger,
		metrics:      metrics,
	}
}

// PostAlerts loads the case graph, formats the canonical alert message,
// and dispatches it to every channel concurrently. A channel failure or
// timeout is recorded in its result slot and never blocks the siblings.
func (a *Alerts) PostAlerts(ctx context.Context, caseID int64) (*BroadcastResult, error) {
	detail, ok, err := a.store.GetCaseDetail(ctx, caseID)
	if err != nil {
		return nil, casefile.Wrap(casefile.KindPersistence, err, "load case")
	}
	if !ok {
		return nil, casefile.Errorf(casefile.KindNotFound, "case %d not found", caseID)
	}

	msg := AlertMessage(detail)

	// One isolated result slot per channel; goroutines never share slots.
	results := make([]ChannelResult, len(a.broadcasters)+1)

	var wg sync.WaitGroup
	for i, b := range a.broadcasters {
		wg.Add(1)
		go func(slot *ChannelResult, b Broadcaster) {
			defer wg.Done()
			*slot = a.dispatchChannel(ctx, b.Name(), func(ctx context.Context) error {
				return b.Post(ctx, msg)
			})
		}(&results[i], b)
	}

	wg.Add(1)
	go func(slot *ChannelResult) {
		defer wg.Done()
		*slot = a.dispatchChannel(ctx, "group:"+a.groupID, func(ctx context.Context) error {
			return a.messenger.SendGroup(ctx, a.groupID, msg)
		})
	}(&results[len(a.broadcasters)])

	wg.Wait()

	res := &BroadcastResult{CaseID: caseID, Message: msg, Channels: results}
	a.logger.Info(ctx, "alerts posted",
		"case_id", caseID,
		"channels", len(results),
		"failed", len(res.Failed()),
	)
	return res, nil
}

// dispatchChannel runs one channel send under its own timeout and
// converts the outcome into a result slot.
func (a *Alerts) dispatchChannel(ctx context.Context, name string, send func(context.Context) error) ChannelResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	err := send(ctx)
	dur := time.Since(start)

	a.metrics.AlertChannelDuration.WithLabelValues(name).Observe(dur.Seconds())

	if err != nil {
		a.metrics.AlertChannelsTotal.WithLabelValues(name, "error").Inc()
		a.logger.Error(ctx, err, "alert channel failed", "channel", name)
		extErr := casefile.Wrap(casefile.KindExternal, err, name)
		return ChannelResult{Channel: name, OK: false, Error: extErr.Error(), Duration: dur.Seconds()}
	}

	a.metrics.AlertChannelsTotal.WithLabelValues(name, "ok").Inc()
	return ChannelResult{Channel: name, OK: true, Duration: dur.Seconds()}
}

// AlertMessage renders the canonical alert for a case: subject details,
// a contact line, and a hashtag derived from the person's name with
// whitespace stripped.
func AlertMessage(d *casefile.CaseDetail) string {
	p := d.Person
	return fmt.Sprintf(
		"MISSING PERSON ALERT: %s, Age %d. Last seen at %s on %s. Description: %s. "+
			"If seen, please contact police or %s. #MissingPerson #Find%s",
		p.Name, p.Age, p.LastSeenLocation, p.LastSeenDate, p.Description,
		d.Case.ContactName, strings.Join(strings.Fields(p.Name), ""),
	)
}
