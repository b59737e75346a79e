// Package rng supplies the engine's random draws from a seeded PCG stream.
package rng

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source implements electrical.Random.
type Source struct {
	src  rand.Source
	rand *rand.Rand
}

// New returns a deterministic source for the given seed.
func New(seed uint64) *Source {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{src: src, rand: rand.New(src)}
}

func (s *Source) Uniform() float64 { return s.rand.Float64() }

func (s *Source) Choose(n int) int { return s.rand.IntN(n) }

// Exponential draws an interarrival time with mean 1/rate.
func (s *Source) Exponential(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand()
}
