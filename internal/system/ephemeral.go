package system

import (
	"time"

	coresys "github.com/hullsim/powergrid/internal/core/system"
	"github.com/hullsim/powergrid/internal/observability"
	"github.com/hullsim/powergrid/internal/points"
)

// EphemeralSystem ages smoke, sparkles and debris after the electrical step.
// Phase 3 (PostUpdate).
type EphemeralSystem struct {
	clock   *Clock
	store   *points.Store
	metrics *observability.ElectricalCollector
}

func NewEphemeralSystem(clock *Clock, store *points.Store, metrics *observability.ElectricalCollector) *EphemeralSystem {
	return &EphemeralSystem{clock: clock, store: store, metrics: metrics}
}

func (s *EphemeralSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *EphemeralSystem) Update(_ time.Duration) {
	expired := s.store.UpdateEphemeralParticles(s.clock.SimulationTime())
	s.metrics.ObserveEphemeral(s.store.Particles().Active(), expired)
}
