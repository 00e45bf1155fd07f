package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	global *Metrics
	once   sync.Once
)

// Metrics holds the process-wide Prometheus collectors. All names carry the
// "horae_" prefix.
//
//   - horae_reminders_armed - one-shot callbacks currently pending
//   - horae_reminder_arm_outcomes_total{outcome} - armed, deferred, lapsed, skipped, fired
//   - horae_reminder_deliveries_total{channel,result} - outbound sends
//   - horae_alarm_cycles_total - alarm pattern plays
//   - horae_timer_segments_total{type,result} - completed, stopped, reset segments
//   - horae_usecase_duration_seconds{usecase,result} - service call latency
type Metrics struct {
	RemindersArmed     prometheus.Gauge
	ArmOutcomesTotal   *prometheus.CounterVec
	DeliveriesTotal    *prometheus.CounterVec
	AlarmCyclesTotal   prometheus.Counter
	TimerSegmentsTotal *prometheus.CounterVec
	UseCaseDuration    *prometheus.HistogramVec
}

// New registers the collectors with the default registry on first use and
// returns the shared instance afterwards.
func New() *Metrics {
	once.Do(func() {
		global = &Metrics{
			RemindersArmed: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "horae_reminders_armed",
				Help: "Number of reminder callbacks currently armed",
			}),
			ArmOutcomesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "horae_reminder_arm_outcomes_total",
					Help: "Scheduling decisions by outcome",
				},
				[]string{"outcome"},
			),
			DeliveriesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "horae_reminder_deliveries_total",
					Help: "Outbound reminder deliveries by channel and result",
				},
				[]string{"channel", "result"},
			),
			AlarmCyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "horae_alarm_cycles_total",
				Help: "Number of times the alarm pattern was played",
			}),
			TimerSegmentsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "horae_timer_segments_total",
					Help: "Timer segments ended, by session type and how they ended",
				},
				[]string{"type", "result"},
			),
			UseCaseDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "horae_usecase_duration_seconds",
					Help:    "Duration of service use cases in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
				},
				[]string{"usecase", "result"},
			),
		}
	})
	return global
}
