package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// StatsSnapshot is a point-in-time copy of pipeline counters, served by
// the stats endpoint.
type StatsSnapshot struct {
	Total       uint64            `json:"total"`
	Answered    uint64            `json:"answered"`
	MissingInfo uint64            `json:"missing_info"`
	ByIntent    map[string]uint64 `json:"by_intent"`
	ByErrorKind map[string]uint64 `json:"by_error_kind"`
}

// StatsService aggregates pipeline outcomes, both as Prometheus metrics
// and as an in-process snapshot.
type StatsService interface {
	Observe(qc *models.QueryContext)
	Snapshot() StatsSnapshot
}

type statsService struct {
	mu          sync.Mutex
	total       uint64
	answered    uint64
	missingInfo uint64
	byIntent    map[models.Intent]uint64
	byErrorKind map[models.ErrorKind]uint64

	questions     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewStatsService creates a stats service registering its metrics on reg.
func NewStatsService(reg prometheus.Registerer) StatsService {
	factory := promauto.With(reg)
	return &statsService{
		byIntent:    make(map[models.Intent]uint64),
		byErrorKind: make(map[models.ErrorKind]uint64),
		questions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chaiyo",
			Subsystem: "pipeline",
			Name:      "questions_total",
			Help:      "Questions processed, by detected intent and outcome.",
		}, []string{"intent", "outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chaiyo",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage processing time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

// Observe records the outcome of one finished pipeline run.
func (s *statsService) Observe(qc *models.QueryContext) {
	outcome := outcomeLabel(qc)

	s.questions.WithLabelValues(string(qc.Intent), outcome).Inc()
	for stage, d := range qc.StageTimings {
		s.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.byIntent[qc.Intent]++
	switch {
	case qc.Succeeded():
		s.answered++
	case qc.State == models.StateMissingInfo:
		s.missingInfo++
	case qc.Err != nil:
		s.byErrorKind[qc.Err.Kind]++
	default:
		s.byErrorKind[models.ErrorKindUnknown]++
	}
}

// Snapshot returns a copy of the counters.
func (s *statsService) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Total:       s.total,
		Answered:    s.answered,
		MissingInfo: s.missingInfo,
		ByIntent:    make(map[string]uint64, len(s.byIntent)),
		ByErrorKind: make(map[string]uint64, len(s.byErrorKind)),
	}
	for intent, n := range s.byIntent {
		snap.ByIntent[string(intent)] = n
	}
	for kind, n := range s.byErrorKind {
		snap.ByErrorKind[string(kind)] = n
	}
	return snap
}

func outcomeLabel(qc *models.QueryContext) string {
	switch {
	case qc.Succeeded():
		return "answered"
	case qc.State == models.StateMissingInfo:
		return "missing_info"
	case qc.Err != nil:
		return string(qc.Err.Kind)
	default:
		return string(models.ErrorKindUnknown)
	}
}
