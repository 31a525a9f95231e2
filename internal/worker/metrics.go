package worker

import (
	"github.com/prometheus/client_golang/prometheus"

	"dealflow/internal/domain/service/deal"
)

const metricsNamespace = "dealflow"

type Metrics struct {
	processed     *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	matches       prometheus.Counter
	blocked       prometheus.Counter
	cycleDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deals_processed_total",
			Help:      "Deals processed by the orchestration loop, by result.",
		}, []string{"result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "valuation_rejections_total",
			Help:      "Valuations that ended without a usable ARV, by code.",
		}, []string{"code"}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "buyer_matches_total",
			Help:      "Deals matched to a buyer.",
		}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "buyer_candidates_blocked_total",
			Help:      "Buyers passed over during matching.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one orchestration cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.processed, m.rejections, m.matches, m.blocked, m.cycleDuration)

	return m
}

func (m *Metrics) observe(out deal.Outcome, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.processed.WithLabelValues("error").Inc()
		return
	}
	m.processed.WithLabelValues("ok").Inc()

	if out.Valuation != nil && out.Valuation.Rejection != nil {
		m.rejections.WithLabelValues(string(out.Valuation.Rejection.Code)).Inc()
	}

	if out.Match != nil {
		m.blocked.Add(float64(len(out.Match.Blocked)))
		if out.Match.Matched() {
			m.matches.Inc()
		}
	}
}
