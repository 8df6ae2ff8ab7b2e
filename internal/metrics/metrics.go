package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt stages.
const (
	StagePath    = "path"
	StageProfile = "profile"
	StageBuild   = "build"
	StageImport  = "import"
)

// Rejection reasons.
const (
	ReasonNoPath    = "no_path"
	ReasonNoProfile = "no_profile"
	ReasonUnreached = "unreached"
	ReasonShortcut  = "shortcut"
)

// Recorder counts generator activity. A nil Recorder discards everything so
// callers never need to guard their calls.
type Recorder struct {
	attempts      *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	fallbacks     prometheus.Counter
	levels        *prometheus.CounterVec
	levelAttempts prometheus.Histogram
}

// NewRecorder registers the generator metrics on reg under namespace.
func NewRecorder(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Generation attempts by stage.",
		}, []string{"stage"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected candidates by reason.",
		}, []string{"reason"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Levels replaced by the baseline after exhausting the attempt budget.",
		}),
		levels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_total",
			Help:      "Levels returned by variant.",
		}, []string{"variant"}),
		levelAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "level_attempts",
			Help:      "Whole-level attempts spent per returned level.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		}),
	}
	for _, c := range []prometheus.Collector{r.attempts, r.rejections, r.fallbacks, r.levels, r.levelAttempts} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// Attempt counts one attempt at the given stage.
func (r *Recorder) Attempt(stage string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(stage).Inc()
}

// Reject counts one rejected candidate.
func (r *Recorder) Reject(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}

// Fallback counts one baseline substitution.
func (r *Recorder) Fallback() {
	if r == nil {
		return
	}
	r.fallbacks.Inc()
}

// Level records a returned level and the whole-level attempts it took.
func (r *Recorder) Level(variant string, attempts int) {
	if r == nil {
		return
	}
	r.levels.WithLabelValues(variant).Inc()
	r.levelAttempts.Observe(float64(attempts))
}
