package notify

import (
	"github.com/alexanderramin/horae/internal/metrics"
	"go.uber.org/zap"
)

// DeliveryEvent records the outcome of a single send.
type DeliveryEvent struct {
	Channel    string
	LatencyMs  int64
	Accepted   bool
	DeliveryID string
	ErrorCode  string
}

// Observer receives delivery events for logging and metrics.
type Observer interface {
	OnDelivery(event DeliveryEvent)
}

// LogObserver writes delivery events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnDelivery(event DeliveryEvent) {
	fields := []zap.Field{
		zap.String("channel", event.Channel),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if event.Accepted {
		o.log.Info("reminder delivered", append(fields, zap.String("delivery_id", event.DeliveryID))...)
		return
	}
	o.log.Warn("reminder delivery failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// MetricsObserver counts deliveries per channel and result.
type MetricsObserver struct {
	m *metrics.Metrics
}

func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{m: m}
}

func (o *MetricsObserver) OnDelivery(event DeliveryEvent) {
	result := "accepted"
	if !event.Accepted {
		result = "rejected"
	}
	o.m.DeliveriesTotal.WithLabelValues(event.Channel, result).Inc()
}

// Observers fans events out to each member.
type Observers []Observer

func (obs Observers) OnDelivery(event DeliveryEvent) {
	for _, o := range obs {
		o.OnDelivery(event)
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnDelivery(DeliveryEvent) {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return NoopObserver{}
	}
	return o
}
