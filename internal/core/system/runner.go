package system

import (
	"sort"
	"time"
)

// PhaseObserver receives the wall-clock time each phase took in a step.
type PhaseObserver func(phase Phase, elapsed time.Duration)

// Runner executes systems in phase order each step. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems  []System
	sorted   bool
	observer PhaseObserver
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Observe installs a per-phase timing callback. Nil removes it.
func (r *Runner) Observe(fn PhaseObserver) { r.observer = fn }

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	if r.observer == nil {
		for _, s := range r.systems {
			s.Update(dt)
		}
		return
	}

	for i := 0; i < len(r.systems); {
		phase := r.systems[i].Phase()
		start := time.Now()
		for ; i < len(r.systems) && r.systems[i].Phase() == phase; i++ {
			r.systems[i].Update(dt)
		}
		r.observer(phase, time.Since(start))
	}
}

// TickPhase runs only the systems of one phase. The shutdown path uses it
// to deliver the last notifications without stepping the simulation.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
