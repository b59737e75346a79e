package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/hullsim/powergrid/internal/core/system"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/observability"
)

// ElectricalSystem advances the clock and runs one electrical step.
// Phase 2 (Update).
type ElectricalSystem struct {
	clock    *Clock
	elements *electrical.Elements
	metrics  *observability.ElectricalCollector
	log      *zap.Logger

	// checkEvery verifies the conducting adjacency every n-th step; 0 disables.
	checkEvery uint32
}

func NewElectricalSystem(clock *Clock, elements *electrical.Elements, metrics *observability.ElectricalCollector, log *zap.Logger) *ElectricalSystem {
	return &ElectricalSystem{clock: clock, elements: elements, metrics: metrics, log: log}
}

// CheckInvariantsEvery verifies the adjacency on every period-th step.
func (s *ElectricalSystem) CheckInvariantsEvery(period uint32) { s.checkEvery = period }

func (s *ElectricalSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ElectricalSystem) Update(_ time.Duration) {
	start := time.Now()
	step := s.clock.Advance()
	s.elements.Update(step)
	s.metrics.ObserveStep(time.Since(start), s.elements.Counts())

	if s.checkEvery > 0 && step.Generation.IsStepOf(0, s.checkEvery) {
		if err := s.elements.CheckInvariants(); err != nil {
			s.log.Panic("electrical network corrupted",
				zap.Stringer("generation", step.Generation), zap.Error(err))
		}
	}
}
