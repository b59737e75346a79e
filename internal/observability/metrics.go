// Package observability exposes Prometheus metrics for the simulation.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hullsim/powergrid/internal/electrical"
)

// ElectricalCollector bundles the Prometheus metrics of the electrical
// network, the particle pool and telemetry.
type ElectricalCollector struct {
	gatherer prometheus.Gatherer

	Steps          prometheus.Counter
	StepDurations  prometheus.Histogram
	PhaseDurations *prometheus.HistogramVec
	Notifications  *prometheus.CounterVec

	Elements          prometheus.Gauge
	DeletedElements   prometheus.Gauge
	PoweredElements   prometheus.Gauge
	OperatingElements prometheus.Gauge
	LitLamps          prometheus.Gauge

	EphemeralParticles prometheus.Gauge
	EphemeralExpired   prometheus.Counter

	TelemetryFlushErrors prometheus.Counter
}

// NewElectricalCollector registers the metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewElectricalCollector(reg prometheus.Registerer) (*ElectricalCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &ElectricalCollector{gatherer: gatherer}
	var err error

	if c.Steps, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powergrid_steps_total",
		Help: "Electrical simulation steps run.",
	}), "powergrid_steps_total"); err != nil {
		return nil, err
	}

	if c.StepDurations, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "powergrid_step_duration_seconds",
		Help:    "Wall-clock time spent in one electrical step.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "powergrid_step_duration_seconds"); err != nil {
		return nil, err
	}

	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "powergrid_phase_duration_seconds",
		Help:    "Wall-clock time spent in each runner phase.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"phase"})
	if c.PhaseDurations, err = registerHistogramVec(reg, phases, "powergrid_phase_duration_seconds"); err != nil {
		return nil, err
	}

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "powergrid_notifications_total",
		Help: "Electrical notifications published, labeled by kind.",
	}, []string{"kind"})
	if c.Notifications, err = registerCounterVec(reg, notifications, "powergrid_notifications_total"); err != nil {
		return nil, err
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.Elements, "powergrid_elements", "Electrical elements on the ship, deleted ones included."},
		{&c.DeletedElements, "powergrid_deleted_elements", "Electrical elements currently destroyed."},
		{&c.PoweredElements, "powergrid_powered_elements", "Elements reached by the last propagation."},
		{&c.OperatingElements, "powergrid_operating_elements", "Elements currently doing their job."},
		{&c.LitLamps, "powergrid_lit_lamps", "Lamps currently giving light."},
		{&c.EphemeralParticles, "powergrid_ephemeral_particles", "Occupied ephemeral particle slots."},
	}
	for _, g := range gauges {
		if *g.dst, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}), g.name); err != nil {
			return nil, err
		}
	}

	if c.EphemeralExpired, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powergrid_ephemeral_expired_total",
		Help: "Ephemeral particles expired.",
	}), "powergrid_ephemeral_expired_total"); err != nil {
		return nil, err
	}

	if c.TelemetryFlushErrors, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powergrid_telemetry_flush_errors_total",
		Help: "Failed telemetry flushes.",
	}), "powergrid_telemetry_flush_errors_total"); err != nil {
		return nil, err
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ElectricalCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveStep records one electrical step and the network counts after it.
func (c *ElectricalCollector) ObserveStep(d time.Duration, counts electrical.Counts) {
	if c == nil {
		return
	}
	c.Steps.Inc()
	c.StepDurations.Observe(d.Seconds())
	c.Elements.Set(float64(counts.Elements))
	c.DeletedElements.Set(float64(counts.Deleted))
	c.PoweredElements.Set(float64(counts.Powered))
	c.OperatingElements.Set(float64(counts.Operating))
	c.LitLamps.Set(float64(counts.LitLamps))
}

// ObservePhase records the time one runner phase took.
func (c *ElectricalCollector) ObservePhase(phase fmt.Stringer, d time.Duration) {
	if c == nil {
		return
	}
	c.PhaseDurations.WithLabelValues(phase.String()).Observe(d.Seconds())
}

// CountNotification records one published notification.
func (c *ElectricalCollector) CountNotification(kind string) {
	if c == nil {
		return
	}
	c.Notifications.WithLabelValues(kind).Inc()
}

// ObserveEphemeral records the pool occupancy and the particles expired in
// the last update.
func (c *ElectricalCollector) ObserveEphemeral(active, expired int) {
	if c == nil {
		return
	}
	c.EphemeralParticles.Set(float64(active))
	c.EphemeralExpired.Add(float64(expired))
}

// TelemetryFlushFailed counts a failed telemetry flush.
func (c *ElectricalCollector) TelemetryFlushFailed() {
	if c == nil {
		return
	}
	c.TelemetryFlushErrors.Inc()
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
