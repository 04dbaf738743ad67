package casework

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/linnemanlabs/findtogether/internal/casefile"
)

const (
	// DefaultDispatchWorkers bounds concurrent direct-message sends.
	DefaultDispatchWorkers = 8

	// DefaultSendTimeout bounds each individual direct-message send.
	DefaultSendTimeout = 5 * time.Second

	notificationTitle = "Urgent Search Request"
)

// DispatchResult summarizes one dispatch event.
type DispatchResult struct {
	DispatchID string   `json:"dispatch_id"`
	Count      int      `json:"count"`
	Names      []string `json:"names"`
	SendErrors int      `json:"send_errors"`
}

// Dispatcher messages matched volunteers and records their notifications.
type Dispatcher struct {
	store       casefile.Store
	messenger   Messenger
	workers     int
	sendTimeout time.Duration
	logger      log.Logger
	metrics     *Metrics
}

// NewDispatcher creates the notification dispatcher. workers <= 0 and
// sendTimeout <= 0 fall back to the defaults.
func NewDispatcher(store casefile.Store, messenger Messenger, workers int, sendTimeout time.Duration, logger log.Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = log.Nop()
	}
	if workers <= 0 {
		workers = DefaultDispatchWorkers
	}
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Dispatcher{
		store:       store,
		messenger:   messenger,
		workers:     workers,
		sendTimeout: sendTimeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// Dispatch direct-messages every matched volunteer that has a phone,
// with bounded fan-out, then inserts one Notification row per matched
// volunteer (phone or not) as a single batch keyed by a fresh dispatch
// ID. A send failure is recorded and never blocks the batch insert or
// the other sends. An empty match set performs no insert.
func (d *Dispatcher) Dispatch(ctx context.Context, caseID int64, personName, location string, matched []casefile.Volunteer) (*DispatchResult, error) {
	dispatchID := ulid.Make().String()
	message := volunteerMessage(personName, location)

	var sendErrors int
	if len(matched) > 0 {
		sendErrors = d.sendDirect(ctx, matched, message)
	}

	names := make([]string, 0, len(matched))
	notifications := make([]casefile.Notification, 0, len(matched))
	for _, v := range matched {
		names = append(names, v.Name)
		notifications = append(notifications, casefile.Notification{
			UserID:     v.UserID,
			CaseID:     caseID,
			DispatchID: dispatchID,
			Title:      notificationTitle,
			Message:    message,
			IsRead:     false,
		})
	}

	if len(notifications) > 0 {
		if err := d.store.CreateNotifications(ctx, notifications); err != nil {
			return nil, casefile.Wrap(casefile.KindPersistence, err, "insert notifications")
		}
		d.metrics.DispatchesTotal.Inc()
		d.metrics.NotificationBatchSize.Observe(float64(len(notifications)))
	}

	d.logger.Info(ctx, "dispatch complete",
		"case_id", caseID,
		"dispatch_id", dispatchID,
		"matched", len(matched),
		"send_errors", sendErrors,
	)
	return &DispatchResult{
		DispatchID: dispatchID,
		Count:      len(matched),
		Names:      names,
		SendErrors: sendErrors,
	}, nil
}

// sendDirect fans the message out to volunteers with phones. Workers are
// bounded and every task returns nil so one failure never cancels the
// siblings; failures are counted in isolated slots.
func (d *Dispatcher) sendDirect(ctx context.Context, matched []casefile.Volunteer, message string) int {
	failed := make([]bool, len(matched))

	g := &errgroup.Group{}
	g.SetLimit(d.workers)
	for i := range matched {
		v := &matched[i]
		if v.Phone == "" {
			continue
		}
		slot := &failed[i]
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
			defer cancel()
			if err := d.messenger.SendDirect(sctx, v.Phone, message); err != nil {
				d.metrics.DirectMessagesTotal.WithLabelValues("error").Inc()
				d.logger.Error(ctx, err, "direct message failed", "volunteer", v.Name)
				*slot = true
				return nil
			}
			d.metrics.DirectMessagesTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}
	_ = g.Wait()

	var errs int
	for _, f := range failed {
		if f {
			errs++
		}
	}
	return errs
}

func volunteerMessage(personName, location string) string {
	return fmt.Sprintf(
		"URGENT VOLUNTEER ALERT: Missing Person %s reported near your location (%s). "+
			"Please check your dashboard for search coordination instructions.",
		personName, location,
	)
}
