package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/core/event"
	coresys "github.com/hullsim/powergrid/internal/core/system"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/observability"
	"github.com/hullsim/powergrid/internal/persist"
)

// EventWriter stores telemetry batches. persist.EventRepo implements it.
type EventWriter interface {
	WriteEvents(ctx context.Context, events []persist.EventRecord) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TelemetryOptions tunes batching and retention.
type TelemetryOptions struct {
	ShipID     uint32
	FlushEvery int           // steps between flushes
	BufferSize int           // records kept while the writer is failing
	Retention  time.Duration // 0 = never prune
}

const pruneInterval = time.Minute

// TelemetrySystem counts every electrical notification and, when a writer
// is configured, batches them into the event log. Phase 4 (Persist).
type TelemetrySystem struct {
	clock   *Clock
	writer  EventWriter
	metrics *observability.ElectricalCollector
	log     *zap.Logger
	opts    TelemetryOptions

	buffer    []persist.EventRecord
	tickCount int
	dropped   int
	lastPrune time.Time
	now       func() time.Time
}

// NewTelemetrySystem subscribes to the bus. writer may be nil, in which case
// only metrics are kept.
func NewTelemetrySystem(bus *event.Bus, clock *Clock, writer EventWriter, metrics *observability.ElectricalCollector, log *zap.Logger, opts TelemetryOptions) *TelemetrySystem {
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 1
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	s := &TelemetrySystem{
		clock:   clock,
		writer:  writer,
		metrics: metrics,
		log:     log,
		opts:    opts,
		buffer:  make([]persist.EventRecord, 0, opts.BufferSize),
		now:     time.Now,
	}
	s.subscribe(bus)
	return s
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *TelemetrySystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.opts.FlushEvery && len(s.buffer) < s.opts.BufferSize {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Pending returns the number of buffered records.
func (s *TelemetrySystem) Pending() int { return len(s.buffer) }

// Flush writes the buffered records immediately. Called on shutdown.
func (s *TelemetrySystem) Flush() {
	if s.writer == nil {
		return
	}

	if len(s.buffer) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.writer.WriteEvents(ctx, s.buffer)
		cancel()
		if err != nil {
			s.metrics.TelemetryFlushFailed()
			s.log.Warn("telemetry flush failed", zap.Int("pending", len(s.buffer)), zap.Error(err))
			return
		}
		s.log.Debug("telemetry flushed", zap.Int("events", len(s.buffer)))
		s.buffer = s.buffer[:0]
	}

	if s.dropped > 0 {
		s.log.Warn("telemetry dropped events while the writer was failing", zap.Int("dropped", s.dropped))
		s.dropped = 0
	}

	s.prune()
}

func (s *TelemetrySystem) prune() {
	if s.opts.Retention <= 0 {
		return
	}
	now := s.now()
	if !s.lastPrune.IsZero() && now.Sub(s.lastPrune) < pruneInterval {
		return
	}
	s.lastPrune = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := s.writer.DeleteBefore(ctx, now.Add(-s.opts.Retention))
	if err != nil {
		s.log.Warn("telemetry prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("telemetry pruned", zap.Int64("rows", n))
	}
}

func (s *TelemetrySystem) record(kind string, id *electrical.ElementID, state, detail string) {
	s.metrics.CountNotification(kind)
	if s.writer == nil {
		return
	}

	// Keep the newest records when the writer keeps failing.
	if len(s.buffer) >= s.opts.BufferSize {
		copy(s.buffer, s.buffer[1:])
		s.buffer = s.buffer[:len(s.buffer)-1]
		s.dropped++
	}

	rec := persist.EventRecord{
		ShipID:     s.opts.ShipID,
		Kind:       kind,
		State:      state,
		Detail:     detail,
		Generation: uint32(s.clock.Generation()),
		SimTime:    s.clock.SimulationTime(),
	}
	if id != nil {
		element := uint32(id.Element)
		rec.Element = &element
	}
	s.buffer = append(s.buffer, rec)
}

func (s *TelemetrySystem) subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.PowerProbeCreated) {
		s.record("probe_created", &e.ID, e.State.String(), e.Probe.String()+" "+e.Instance.Label)
	})
	event.Subscribe(bus, func(e event.SwitchCreated) {
		s.record("switch_created", &e.ID, e.State.String(), e.Switch.String()+" "+e.Instance.Label)
	})
	event.Subscribe(bus, func(e event.PowerProbeToggled) {
		s.record("probe_toggled", &e.ID, e.State.String(), "")
	})
	event.Subscribe(bus, func(e event.SwitchToggled) {
		s.record("switch_toggled", &e.ID, e.State.String(), "")
	})
	event.Subscribe(bus, func(e event.SwitchEnabled) {
		s.record("switch_enabled", &e.ID, electrical.StateOf(e.Enabled).String(), "")
	})
	event.Subscribe(bus, func(e event.LightFlicker) {
		detail := e.Duration.String()
		if e.IsUnderwater {
			detail += " underwater"
		}
		s.record("light_flicker", nil, "", detail)
	})
	event.Subscribe(bus, func(e event.ScenarioAction) {
		s.record("scenario", nil, "", e.Action+" "+e.Target)
	})
}
