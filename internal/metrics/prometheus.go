// Package metrics provides Prometheus metrics for the arena service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the arena service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Queue metrics
	queueDepth    *prometheus.GaugeVec
	queueJoins    *prometheus.CounterVec
	queueDrops    *prometheus.CounterVec
	queueSweeps   prometheus.Counter
	matchesFormed *prometheus.CounterVec

	// Draft metrics
	draftActions  *prometheus.CounterVec
	draftTimeouts *prometheus.CounterVec

	// Session metrics
	votesCast          prometheus.Counter
	sessionsCanceled   prometheus.Counter
	sessionsTimedOut   prometheus.Counter
	sessionsFinalized  *prometheus.CounterVec
	ratingDeltaApplied prometheus.Histogram

	// Monitor metrics
	oraclePolls  prometheus.Counter
	oracleErrors prometheus.Counter
	watcherCount prometheus.Gauge

	// Orchestrator metrics
	scanDuration *prometheus.HistogramVec
	scanErrors   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "matchmaking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.queueDepth = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queue_depth",
			Help:      "Current number of players waiting, by pool",
		},
		[]string{"mode"},
	)

	m.queueJoins = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queue_joins_total",
			Help:      "Total number of queue joins, by pool",
		},
		[]string{"mode"},
	)

	m.queueDrops = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queue_drops_total",
			Help:      "Total number of entries dropped for sitting too long, by pool",
		},
		[]string{"mode"},
	)

	m.queueSweeps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_sweeps_total",
		Help:      "Total number of queue sweep passes",
	})

	m.matchesFormed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "matches_formed_total",
			Help:      "Total number of sessions formed, by pool",
		},
		[]string{"mode"},
	)

	m.draftActions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "draft_actions_total",
			Help:      "Total number of draft bans and picks, by action",
		},
		[]string{"action"},
	)

	m.draftTimeouts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "draft_timeouts_total",
			Help:      "Total number of drafts abandoned to a stage timeout, by stage",
		},
		[]string{"stage"},
	)

	m.votesCast = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cancel_votes_total",
		Help:      "Total number of cancellation votes recorded",
	})

	m.sessionsCanceled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_canceled_total",
		Help:      "Total number of sessions canceled by player vote",
	})

	m.sessionsTimedOut = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_timed_out_total",
		Help:      "Total number of sessions closed with no outcome",
	})

	m.sessionsFinalized = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sessions_finalized_total",
			Help:      "Total number of sessions finalized, by winning side",
		},
		[]string{"winner"},
	)

	m.ratingDeltaApplied = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_delta_applied",
		Help:      "Absolute rating change applied per player per finalized session",
		Buckets:   []float64{20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70},
	})

	m.oraclePolls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_polls_total",
		Help:      "Total number of oracle polls",
	})

	m.oracleErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_errors_total",
		Help:      "Total number of failed oracle polls",
	})

	m.watcherCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_watcher_count",
		Help:      "Current number of running session watchers",
	})

	m.scanDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scan_duration_milliseconds",
			Help:      "Orchestrator scan pass duration in milliseconds, by loop",
			Buckets:   m.histogramBuckets,
		},
		[]string{"loop"},
	)

	m.scanErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scan_errors_total",
			Help:      "Total number of failed orchestrator scan passes, by loop",
		},
		[]string{"loop"},
	)
}

// UpdateQueueDepth sets the current queue depth for a pool.
func UpdateQueueDepth(mode string, depth int) {
	globalManager.queueDepth.WithLabelValues(mode).Set(float64(depth))
}

// RecordQueueJoin increments the join counter for a pool.
func RecordQueueJoin(mode string) {
	globalManager.queueJoins.WithLabelValues(mode).Inc()
}

// RecordQueueDrop increments the expired-entry counter for a pool.
func RecordQueueDrop(mode string) {
	globalManager.queueDrops.WithLabelValues(mode).Inc()
}

// RecordQueueSweep increments the sweep pass counter.
func RecordQueueSweep() {
	globalManager.queueSweeps.Inc()
}

// RecordMatchFormed increments the formed-session counter for a pool.
func RecordMatchFormed(mode string) {
	globalManager.matchesFormed.WithLabelValues(mode).Inc()
}

// RecordDraftAction increments the ban or pick counter.
func RecordDraftAction(action string) {
	globalManager.draftActions.WithLabelValues(action).Inc()
}

// RecordDraftTimeout increments the stage timeout counter.
func RecordDraftTimeout(stage string) {
	globalManager.draftTimeouts.WithLabelValues(stage).Inc()
}

// RecordVoteCast increments the cancellation vote counter.
func RecordVoteCast() {
	globalManager.votesCast.Inc()
}

// RecordSessionCanceled increments the canceled session counter.
func RecordSessionCanceled() {
	globalManager.sessionsCanceled.Inc()
}

// RecordSessionTimedOut increments the timed out session counter.
func RecordSessionTimedOut() {
	globalManager.sessionsTimedOut.Inc()
}

// RecordSessionFinalized increments the finalized counter for a winner.
func RecordSessionFinalized(winner string) {
	globalManager.sessionsFinalized.WithLabelValues(winner).Inc()
}

// RecordRatingDelta records one player's absolute rating change.
func RecordRatingDelta(delta float64) {
	if delta < 0 {
		delta = -delta
	}
	globalManager.ratingDeltaApplied.Observe(delta)
}

// RecordOraclePoll increments the oracle poll counter.
func RecordOraclePoll() {
	globalManager.oraclePolls.Inc()
}

// RecordOracleError increments the failed poll counter.
func RecordOracleError() {
	globalManager.oracleErrors.Inc()
}

// UpdateWatcherCount sets the number of running session watchers.
func UpdateWatcherCount(count int) {
	globalManager.watcherCount.Set(float64(count))
}

// RecordScanDuration records one orchestrator scan pass.
func RecordScanDuration(loop string, durationMs float64) {
	globalManager.scanDuration.WithLabelValues(loop).Observe(durationMs)
}

// RecordScanError increments the failed scan counter for a loop.
func RecordScanError(loop string) {
	globalManager.scanErrors.WithLabelValues(loop).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
