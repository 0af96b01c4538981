package application

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bnema/jobgate/internal/domain"
)

// Metrics records admission activity. The collectors are updated by the callers of the job
// service, not by the service itself. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Decisions         *prometheus.CounterVec
	Refreshes         *prometheus.CounterVec
	StaleFallbacks    prometheus.Counter
	Launches          *prometheus.CounterVec
	Stops             *prometheus.CounterVec
	ActiveJobs        prometheus.Gauge
	SnapshotFetchedAt prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobgate",
			Name:      "admission_decisions_total",
			Help:      "Admission decisions by outcome.",
		}, []string{"reason"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobgate",
			Name:      "refreshes_total",
			Help:      "Cache refreshes by cache and result.",
		}, []string{"cache", "result"}),
		StaleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jobgate",
			Name:      "stale_snapshot_fallbacks_total",
			Help:      "Admission checks that used the last known snapshot after a failed refresh.",
		}),
		Launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobgate",
			Name:      "launches_total",
			Help:      "Launch calls forwarded to the job service.",
		}, []string{"result"}),
		Stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobgate",
			Name:      "stops_total",
			Help:      "Stop calls forwarded to the job service.",
		}, []string{"result"}),
		ActiveJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jobgate",
			Name:      "active_jobs",
			Help:      "Jobs counted against quota in the latest snapshot.",
		}),
		SnapshotFetchedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jobgate",
			Name:      "snapshot_fetched_timestamp_seconds",
			Help:      "Unix time of the latest stored job snapshot.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Decisions, m.Refreshes, m.StaleFallbacks, m.Launches, m.Stops, m.ActiveJobs, m.SnapshotFetchedAt)
	}

	return m
}

func (m *Metrics) observeDecision(decision domain.Decision) {
	if m == nil {
		return
	}
	reason := string(decision.Reason)
	if decision.Accepted() {
		reason = "accepted"
	}
	m.Decisions.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeRefresh(cache string, err error) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(cache, resultLabel(err)).Inc()
}

func (m *Metrics) observeStaleFallback() {
	if m == nil {
		return
	}
	m.StaleFallbacks.Inc()
}

func (m *Metrics) observeLaunch(err error) {
	if m == nil {
		return
	}
	m.Launches.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) observeStop(err error) {
	if m == nil {
		return
	}
	m.Stops.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) observeSnapshot(snapshot Snapshot, active int) {
	if m == nil {
		return
	}
	m.ActiveJobs.Set(float64(active))
	m.SnapshotFetchedAt.Set(float64(snapshot.FetchedAt.Unix()))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
