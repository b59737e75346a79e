package system

import (
	"time"

	"github.com/hullsim/powergrid/internal/core/seq"
	"github.com/hullsim/powergrid/internal/electrical"
)

// Clock owns the step generation and simulated time shared by the systems.
// The electrical system advances it once per step; everyone else reads.
type Clock struct {
	now          func() time.Time
	stepDuration float64
	simTime      float64
	wall         time.Time
	gen          seq.Counter
}

// NewClock returns a clock advancing stepDuration simulated seconds per
// step. A nil now derives the wall clock from simulated time, which keeps
// runs reproducible.
func NewClock(stepDuration float64, now func() time.Time) *Clock {
	c := &Clock{now: now, stepDuration: stepDuration}
	c.wall = c.wallClock()
	return c
}

// Advance moves to the next step and returns its parameters.
func (c *Clock) Advance() electrical.Step {
	g := c.gen.Advance()
	c.simTime += c.stepDuration
	c.wall = c.wallClock()
	return electrical.Step{Generation: g, WallClock: c.wall, SimulationTime: c.simTime}
}

func (c *Clock) SimulationTime() float64 { return c.simTime }

func (c *Clock) WallClock() time.Time { return c.wall }

// Generation is the generation of the last step, None before the first.
func (c *Clock) Generation() seq.Number { return c.gen.Current() }

func (c *Clock) wallClock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Unix(0, 0).Add(time.Duration(c.simTime * float64(time.Second)))
}
