package casework

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the casework workflows.
type Metrics struct {
	IntakesTotal          *prometheus.CounterVec
	AlertChannelsTotal    *prometheus.CounterVec
	AlertChannelDuration  *prometheus.HistogramVec
	DispatchesTotal       prometheus.Counter
	DirectMessagesTotal   *prometheus.CounterVec
	NotificationBatchSize prometheus.Histogram
	SightingsTotal        prometheus.Counter
	FaceComparisonsTotal  *prometheus.CounterVec
	PotentialMatchesTotal prometheus.Counter
}

// NewMetrics registers and returns casework metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IntakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "findtogether_intakes_total",
			Help: "Case intake attempts by outcome.",
		}, []string{"outcome"}),
		AlertChannelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "findtogether_alert_channels_total",
			Help: "Per-channel alert dispatch attempts by outcome.",
		}, []string{"channel", "outcome"}),
		AlertChannelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "findtogether_alert_channel_duration_seconds",
			Help:    "Duration of individual alert channel dispatches.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}, []string{"channel"}),
		DispatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "findtogether_dispatches_total",
			Help: "Volunteer dispatch events.",
		}),
		DirectMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "findtogether_direct_messages_total",
			Help: "Direct volunteer messages by outcome.",
		}, []string{"outcome"}),
		NotificationBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "findtogether_notification_batch_size",
			Help:    "Notification rows written per dispatch batch.",
			Buckets: prometheus.LinearBuckets(0, 5, 12), // 0 .. 55
		}),
		SightingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "findtogether_sightings_total",
			Help: "Sighting reports accepted.",
		}),
		FaceComparisonsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "findtogether_face_comparisons_total",
			Help: "Sighting photo comparisons by outcome.",
		}, []string{"outcome"}),
		PotentialMatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "findtogether_potential_matches_total",
			Help: "Potential matches recorded above the confidence threshold.",
		}),
	}

	reg.MustRegister(
		m.IntakesTotal,
		m.AlertChannelsTotal,
		m.AlertChannelDuration,
		m.DispatchesTotal,
		m.DirectMessagesTotal,
		m.NotificationBatchSize,
		m.SightingsTotal,
		m.FaceComparisonsTotal,
		m.PotentialMatchesTotal,
	)
	return m
}

// NopMetrics returns metrics registered on a throwaway registry, for tests.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
