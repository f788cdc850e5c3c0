package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "tracker",
		Name:      "records_created_total",
		Help:      "Completed activity records appended, labeled by activity type.",
	}, []string{"type"})

	openSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tempo",
		Subsystem: "tracker",
		Name:      "open_sessions",
		Help:      "Duration activities currently being tracked.",
	})

	flushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "persistence",
		Name:      "flushes_total",
		Help:      "Debounced persistence writes, labeled by result.",
	}, []string{"result"})

	flushDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tempo",
		Subsystem: "persistence",
		Name:      "flush_duration_seconds",
		Help:      "Time spent writing both collections to the blob store.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	lastFlush = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tempo",
		Subsystem: "persistence",
		Name:      "last_flush_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write.",
	})

	remindersScheduled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "reminder",
		Name:      "scheduled_total",
		Help:      "Reminders handed to the notification service.",
	})

	remindersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "reminder",
		Name:      "cancelled_total",
		Help:      "Pending reminders cancelled before firing.",
	})

	remindersDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "reminder",
		Name:      "delivered_total",
		Help:      "Reminders delivered by the in-process notifier.",
	})

	notificationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tempo",
		Subsystem: "reminder",
		Name:      "errors_total",
		Help:      "Notification service failures, labeled by cause.",
	}, []string{"cause"})
)

func init() {
	prometheus.MustRegister(
		recordsCreated,
		openSessions,
		flushes,
		flushDuration,
		lastFlush,
		remindersScheduled,
		remindersCancelled,
		remindersDelivered,
		notificationErrors,
	)
}

func RecordCreated(activityType string) {
	recordsCreated.WithLabelValues(activityType).Inc()
}

func SetOpenSessions(n int) {
	openSessions.Set(float64(n))
}

// RecordFlush observes one persistence write.
func RecordFlush(started time.Time, err error) {
	flushDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		flushes.WithLabelValues("error").Inc()
		return
	}
	flushes.WithLabelValues("ok").Inc()
	lastFlush.Set(float64(time.Now().Unix()))
}

func ReminderScheduled() { remindersScheduled.Inc() }

func ReminderCancelled() { remindersCancelled.Inc() }

func ReminderDelivered() { remindersDelivered.Inc() }

func NotificationError(cause string) {
	notificationErrors.WithLabelValues(cause).Inc()
}
