package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hullsim/powergrid/internal/core/event"
	coresys "github.com/hullsim/powergrid/internal/core/system"
	"github.com/hullsim/powergrid/internal/data"
	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/ship"
)

// ScenarioSystem replays the ship's timed actions against the points and the
// electrical network. Phase 0 (Input).
type ScenarioSystem struct {
	clock   *Clock
	ship    *ship.Ship
	bus     *event.Bus
	actions []data.ActionEntry // sorted by At
	next    int
	log     *zap.Logger
}

func NewScenarioSystem(clock *Clock, s *ship.Ship, actions []data.ActionEntry, bus *event.Bus, log *zap.Logger) *ScenarioSystem {
	return &ScenarioSystem{clock: clock, ship: s, bus: bus, actions: actions, log: log}
}

func (s *ScenarioSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Done reports whether every action has been applied.
func (s *ScenarioSystem) Done() bool { return s.next >= len(s.actions) }

func (s *ScenarioSystem) Update(_ time.Duration) {
	now := s.clock.SimulationTime()
	for s.next < len(s.actions) && s.actions[s.next].At <= now {
		a := s.actions[s.next]
		s.next++
		if err := s.apply(a); err != nil {
			s.log.Warn("scenario action skipped",
				zap.String("action", a.Action),
				zap.String("target", a.Target),
				zap.Float64("at", a.At),
				zap.Error(err))
			continue
		}
		event.Emit(s.bus, event.ScenarioAction{At: a.At, Action: a.Action, Target: a.Target})
	}
}

func (s *ScenarioSystem) apply(a data.ActionEntry) error {
	i, err := s.ship.Lookup(a.Target)
	if err != nil {
		return err
	}
	el := s.ship.Elements
	p := el.Point(i)

	switch a.Action {
	case "flood":
		s.ship.Points.SetWater(p, a.Value)
	case "drain":
		s.ship.Points.SetWater(p, 0)
	case "heat":
		s.ship.Points.SetTemperature(p, a.Value)
	case "toggle":
		if t := el.Type(i); t != electrical.InteractivePushSwitch && t != electrical.InteractiveToggleSwitch {
			return fmt.Errorf("%s is a %s, not an interactive switch", a.Target, t)
		}
		if el.IsDeleted(i) {
			return fmt.Errorf("%s is destroyed", a.Target)
		}
		el.Toggle(i)
	case "destroy":
		if el.IsDeleted(i) {
			return fmt.Errorf("%s already destroyed", a.Target)
		}
		el.Destroy(i)
	case "restore":
		if !el.IsDeleted(i) {
			return fmt.Errorf("%s is not destroyed", a.Target)
		}
		el.Restore(i)
	case "connect", "disconnect":
		j, err := s.ship.Lookup(a.Other)
		if err != nil {
			return err
		}
		if i == j {
			return fmt.Errorf("cannot %s %s to itself", a.Action, a.Target)
		}
		if el.IsDeleted(i) || el.IsDeleted(j) {
			return fmt.Errorf("cannot %s destroyed elements", a.Action)
		}
		if a.Action == "connect" {
			el.AddConnection(i, j)
		} else {
			el.RemoveConnection(i, j)
		}
	default:
		return fmt.Errorf("unknown action %q", a.Action)
	}
	return nil
}
