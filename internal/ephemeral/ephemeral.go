// Package ephemeral holds short-lived visual particles (debris, sparkles,
// smoke) in a fixed-size pool that never grows.
package ephemeral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Type is the kind of particle occupying a slot.
type Type uint8

const (
	None Type = iota
	Debris
	Sparkle
	LightSmoke
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Debris:
		return "debris"
	case Sparkle:
		return "sparkle"
	case LightSmoke:
		return "light_smoke"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// State is the per-type state of a particle.
type State interface {
	ephemeralState()
}

// DebrisState fades out over the particle lifetime.
type DebrisState struct {
	Alpha float64
}

// SparkleFrames is the number of animation frames a sparkle steps through.
const SparkleFrames = 4

// SparkleState animates through its lifetime. Variant picks the texture
// and is fixed at creation; Frame advances with Progress.
type SparkleState struct {
	Variant  int
	Frame    int
	Progress float64
}

// SmokeState rises while it cools.
type SmokeState struct {
	Temperature float64
	Progress    float64
}

func (*DebrisState) ephemeralState()  {}
func (*SparkleState) ephemeralState() {}
func (*SmokeState) ephemeralState()   {}

// Particle is one pool slot. Times are simulation seconds; Velocity is in
// world units per simulation second.
type Particle struct {
	Type        Type
	Origin      r2.Vec // Position at StartTime
	Position    r2.Vec
	Velocity    r2.Vec
	StartTime   float64
	MaxLifetime float64
	State       State
}

// Pool is a fixed-capacity particle store. When full, the oldest particle
// is recycled.
type Pool struct {
	particles []Particle
	cursor    int
	active    int
}

// NewPool creates a pool with size slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		panic(fmt.Sprintf("ephemeral: pool size %d", size))
	}
	return &Pool{particles: make([]Particle, size)}
}

// Len returns the capacity.
func (p *Pool) Len() int { return len(p.particles) }

// Active returns the number of occupied slots.
func (p *Pool) Active() int { return p.active }

// Get returns the particle in slot i.
func (p *Pool) Get(i int) Particle { return p.particles[i] }

// Allocate returns the first free slot at or after the cursor, or the
// oldest slot when none is free. Among equally old slots the last one
// scanned wins. The cursor moves past the returned slot.
func (p *Pool) Allocate(now float64) int {
	n := len(p.particles)
	oldest := -1
	oldestAge := math.Inf(-1)

	for i, scanned := p.cursor, 0; scanned < n; scanned++ {
		if p.particles[i].Type == None {
			p.cursor = (i + 1) % n
			return i
		}
		if age := now - p.particles[i].StartTime; age >= oldestAge {
			oldest = i
			oldestAge = age
		}
		i = (i + 1) % n
	}

	p.cursor = (oldest + 1) % n
	return oldest
}

// Create stores a particle in a newly allocated slot, stamping its start
// time, and returns the slot.
func (p *Pool) Create(now float64, particle Particle) int {
	if particle.Type == None {
		panic("ephemeral: creating a particle of type none")
	}
	i := p.Allocate(now)
	if p.particles[i].Type == None {
		p.active++
	}
	particle.StartTime = now
	particle.Origin = particle.Position
	p.particles[i] = particle
	return i
}

// Update expires particles past their lifetime and moves and animates the
// others.
// It returns the number of particles expired.
func (p *Pool) Update(now float64) int {
	expired := 0
	for i := range p.particles {
		pt := &p.particles[i]
		if pt.Type == None {
			continue
		}

		elapsed := now - pt.StartTime
		if elapsed >= pt.MaxLifetime {
			*pt = Particle{}
			p.active--
			expired++
			continue
		}

		pt.Position = r2.Add(pt.Origin, r2.Scale(elapsed, pt.Velocity))

		progress := elapsed / pt.MaxLifetime
		switch st := pt.State.(type) {
		case *DebrisState:
			st.Alpha = math.Max(1-progress, 0)
		case *SparkleState:
			st.Progress = progress
			st.Frame = min(int(progress*SparkleFrames), SparkleFrames-1)
		case *SmokeState:
			st.Progress = progress
		}
	}
	return expired
}
