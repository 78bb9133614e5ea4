package metrics

import (
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// DispatchMetricsCollector records mediator dispatches as Prometheus
// metrics. It implements mediator.Observer.
type DispatchMetricsCollector struct {
	dispatchDuration *prometheus.HistogramVec
	dispatchesTotal  *prometheus.CounterVec
	wrappersBuilt    *prometheus.CounterVec
	resolutionsTotal prometheus.Counter
}

// NewDispatchMetricsCollector creates a new dispatch metrics collector
func NewDispatchMetricsCollector() *DispatchMetricsCollector {
	return &DispatchMetricsCollector{
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Request dispatch duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"request", "status"},
		),
		dispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by type and status",
			},
			[]string{"request", "status"},
		),
		wrappersBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "wrappers_built_total",
				Help:      "Dispatch wrappers built, at most one per request type and cache",
			},
			[]string{"request"},
		),
		resolutionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "handler_resolutions_total",
				Help:      "Handler instances obtained from the resolver",
			},
		),
	}
}

// Register registers all dispatch metrics with the global registry.
// It does nothing while metrics are disabled.
func (c *DispatchMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	return c.RegisterWith(Registry)
}

// RegisterWith registers all dispatch metrics with reg.
func (c *DispatchMetricsCollector) RegisterWith(reg prometheus.Registerer) error {
	for _, metric := range []prometheus.Collector{
		c.dispatchDuration,
		c.dispatchesTotal,
		c.wrappersBuilt,
		c.resolutionsTotal,
	} {
		if err := reg.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

func (c *DispatchMetricsCollector) WrapperBuilt(requestType reflect.Type) {
	c.wrappersBuilt.WithLabelValues(mediator.RequestName(requestType)).Inc()
}

func (c *DispatchMetricsCollector) HandlerResolved(reflect.Type) {
	c.resolutionsTotal.Inc()
}

func (c *DispatchMetricsCollector) DispatchCompleted(requestType reflect.Type, elapsed time.Duration, err error) {
	name := mediator.RequestName(requestType)
	status := "success"
	if err != nil {
		status = "error"
	}

	c.dispatchDuration.WithLabelValues(name, status).Observe(elapsed.Seconds())
	c.dispatchesTotal.WithLabelValues(name, status).Inc()
}

var _ mediator.Observer = (*DispatchMetricsCollector)(nil)
