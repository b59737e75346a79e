package system

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/points"
)

const (
	destroyDebris   = 3
	destroySparkles = 4
	debrisSpeed     = 4.0
	sparkleSpeed    = 8.0
)

// DestroyEffects implements electrical.DestroyHandler: a destroyed element
// throws debris and sparks, a restored one flashes.
type DestroyEffects struct {
	clock    *Clock
	store    *points.Store
	elements *electrical.Elements
	random   electrical.Random
}

func NewDestroyEffects(clock *Clock, store *points.Store, elements *electrical.Elements, random electrical.Random) *DestroyEffects {
	return &DestroyEffects{clock: clock, store: store, elements: elements, random: random}
}

func (d *DestroyEffects) HandleElectricalElementDestroy(i electrical.ElementIndex) {
	p := d.elements.Point(i)
	t := d.clock.SimulationTime()
	for range destroyDebris {
		d.store.CreateDebris(p, d.velocity(debrisSpeed), t)
	}
	for range destroySparkles {
		d.store.CreateSparkle(p, d.velocity(sparkleSpeed), t)
	}
}

func (d *DestroyEffects) HandleElectricalElementRestore(i electrical.ElementIndex) {
	d.store.StartHighlight(d.elements.Point(i), electrical.PowerOnHighlight, d.clock.WallClock())
}

// velocity picks a random direction with a speed between half and full.
func (d *DestroyEffects) velocity(maxSpeed float64) r2.Vec {
	angle := 2 * math.Pi * d.random.Uniform()
	speed := maxSpeed * (0.5 + 0.5*d.random.Uniform())
	return r2.Vec{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
}
