// Package points is the in-memory particle store the electrical engine reads
// water, temperature and submersion from.
package points

import (
	"image/color"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hullsim/powergrid/internal/electrical"
	"github.com/hullsim/powergrid/internal/ephemeral"
)

// Config tunes the store.
type Config struct {
	SeaLevel           float64
	InitialTemperature float64
	HeatCapacity       float64

	SmokeLifetime     time.Duration
	SparkleLifetime   time.Duration
	DebrisLifetime    time.Duration
	HighlightDuration time.Duration
}

// Point is one hull particle.
type Point struct {
	Position    r2.Vec
	Water       float64
	Temperature float64
}

// Highlight is a transient colored marker on a point.
type Highlight struct {
	Point electrical.PointIndex
	Color color.RGBA
	Start time.Time
}

// Store implements electrical.Points over a flat slice of particles.
type Store struct {
	cfg        Config
	points     []Point
	particles  *ephemeral.Pool
	highlights []Highlight
	sparkle    int
}

func New(cfg Config, particles *ephemeral.Pool) *Store {
	return &Store{cfg: cfg, particles: particles}
}

// Add creates a dry point at ambient temperature.
func (s *Store) Add(pos r2.Vec) electrical.PointIndex {
	s.points = append(s.points, Point{Position: pos, Temperature: s.cfg.InitialTemperature})
	return electrical.PointIndex(len(s.points) - 1)
}

func (s *Store) Len() int { return len(s.points) }

func (s *Store) Get(p electrical.PointIndex) Point { return s.points[p] }

func (s *Store) Particles() *ephemeral.Pool { return s.particles }

// SetWater sets the water fraction, clamped to [0, 1].
func (s *Store) SetWater(p electrical.PointIndex, water float64) {
	s.points[p].Water = min(max(water, 0), 1)
}

func (s *Store) SetTemperature(p electrical.PointIndex, t float64) {
	s.points[p].Temperature = t
}

func (s *Store) Water(p electrical.PointIndex) float64 { return s.points[p].Water }

func (s *Store) Temperature(p electrical.PointIndex) float64 { return s.points[p].Temperature }

// IsUnderwater reports whether the point lies below the sea level.
func (s *Store) IsUnderwater(p electrical.PointIndex) bool {
	return s.points[p].Position.Y < s.cfg.SeaLevel
}

// AddHeat raises the temperature by heat (J) over the point's heat capacity.
func (s *Store) AddHeat(p electrical.PointIndex, heat float64) {
	s.points[p].Temperature += heat / s.cfg.HeatCapacity
}

func (s *Store) StartHighlight(p electrical.PointIndex, c color.RGBA, now time.Time) {
	s.highlights = append(s.highlights, Highlight{Point: p, Color: c, Start: now})
}

// Highlights drops the highlights older than the configured duration and
// returns the rest.
func (s *Store) Highlights(now time.Time) []Highlight {
	live := s.highlights[:0]
	for _, h := range s.highlights {
		if now.Sub(h.Start) < s.cfg.HighlightDuration {
			live = append(live, h)
		}
	}
	s.highlights = live
	return live
}

// CreateSmoke spawns a rising smoke particle at the point.
func (s *Store) CreateSmoke(p electrical.PointIndex, temperature float64, simulationTime float64) {
	s.particles.Create(simulationTime, ephemeral.Particle{
		Type:        ephemeral.LightSmoke,
		Position:    s.points[p].Position,
		Velocity:    r2.Vec{Y: 1},
		MaxLifetime: s.cfg.SmokeLifetime.Seconds(),
		State:       &ephemeral.SmokeState{Temperature: temperature},
	})
}

// CreateDebris spawns a fading fragment thrown off the point.
func (s *Store) CreateDebris(p electrical.PointIndex, velocity r2.Vec, simulationTime float64) {
	s.particles.Create(simulationTime, ephemeral.Particle{
		Type:        ephemeral.Debris,
		Position:    s.points[p].Position,
		Velocity:    velocity,
		MaxLifetime: s.cfg.DebrisLifetime.Seconds(),
		State:       &ephemeral.DebrisState{Alpha: 1},
	})
}

// CreateSparkle spawns a spark; successive sparks alternate between the two
// textures.
func (s *Store) CreateSparkle(p electrical.PointIndex, velocity r2.Vec, simulationTime float64) {
	s.sparkle ^= 1
	s.particles.Create(simulationTime, ephemeral.Particle{
		Type:        ephemeral.Sparkle,
		Position:    s.points[p].Position,
		Velocity:    velocity,
		MaxLifetime: s.cfg.SparkleLifetime.Seconds(),
		State:       &ephemeral.SparkleState{Variant: s.sparkle},
	})
}

// UpdateEphemeralParticles ages the particle pool and returns how many
// particles expired.
func (s *Store) UpdateEphemeralParticles(simulationTime float64) int {
	return s.particles.Update(simulationTime)
}
