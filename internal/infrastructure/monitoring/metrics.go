package monitoring

import (
	"context"
	"sort"

	"github.com/bnema/webbridge/internal/application/port"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bridge collectors.
type Metrics struct {
	Registry *prometheus.Registry

	OutcomesTotal     *prometheus.CounterVec
	RoundTripDuration *prometheus.HistogramVec
	BridgesLive       prometheus.Gauge
}

var _ port.OutcomeRecorder = (*Metrics)(nil)

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webbridge",
				Name:      "host_round_trips_total",
				Help:      "Host round trips by method and terminal path",
			},
			[]string{"method", "result"},
		),
		RoundTripDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "webbridge",
				Name:      "host_round_trip_duration_seconds",
				Help:      "Time from sending a host method to its terminal path",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"method"},
		),
		BridgesLive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "webbridge",
				Name:      "bridges_live",
				Help:      "Renderers with a live bridge",
			},
		),
	}
}

// Record implements port.OutcomeRecorder.
func (m *Metrics) Record(_ context.Context, outcome entity.Outcome) {
	m.OutcomesTotal.WithLabelValues(string(outcome.Method), string(outcome.Result)).Inc()
	if outcome.Result != entity.OutcomeOrphaned {
		m.RoundTripDuration.WithLabelValues(string(outcome.Method)).Observe(outcome.Latency.Seconds())
	}
}

// SetBridges sets the live bridge gauge. It matches bridge.WithBridgeCount.
func (m *Metrics) SetBridges(live int) {
	m.BridgesLive.Set(float64(live))
}

// OutcomeCount is one row of Summary.
type OutcomeCount struct {
	Method string
	Result string
	Count  int64
}

// Summary gathers the outcome counter, sorted by method then result.
func (m *Metrics) Summary() ([]OutcomeCount, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []OutcomeCount
	for _, fam := range families {
		if fam.GetName() != "webbridge_host_round_trips_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			row := OutcomeCount{Count: int64(metric.GetCounter().GetValue())}
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "method":
					row.Method = label.GetValue()
				case "result":
					row.Result = label.GetValue()
				}
			}
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Result < out[j].Result
	})
	return out, nil
}
