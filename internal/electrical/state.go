package electrical

import (
	"math"
	"time"
)

// ElementState is the per-type mutable state of an element. The concrete
// type always matches the element's ElementType.
type ElementState interface {
	elementState()
}

// CableState carries nothing; cables only conduct.
type CableState struct{}

// SwitchState carries nothing; a switch's state is its conductivity.
type SwitchState struct{}

// GeneratorState tracks whether a generator is producing current.
type GeneratorState struct {
	IsProducingCurrent bool
}

// SourceState is implemented by states of element types that inject current.
type SourceState interface {
	ElementState
	Producing() bool
	SetProducing(on bool)
}

func (g *GeneratorState) Producing() bool      { return g.IsProducingCurrent }
func (g *GeneratorState) SetProducing(on bool) { g.IsProducingCurrent = on }

// LampPhase is the state of the lamp machine.
type LampPhase uint8

const (
	LampInitial LampPhase = iota
	LampLightOn
	LampFlickerA
	LampFlickerB
	LampLightOff
)

func (p LampPhase) String() string {
	switch p {
	case LampInitial:
		return "initial"
	case LampLightOn:
		return "light_on"
	case LampFlickerA:
		return "flicker_a"
	case LampFlickerB:
		return "flicker_b"
	default:
		return "light_off"
	}
}

// LampState drives the lamp machine.
type LampState struct {
	IsSelfPowered bool
	// WetFailureRateCDF is the probability of failing at a single check.
	WetFailureRateCDF float64

	Phase               LampPhase
	FlickerCounter      int
	NextStateTransition time.Time
	NextWetFailureCheck time.Time
}

// wetFailureCDF turns a failures-per-minute rate into the probability of at
// least one failure within a check interval.
func wetFailureCDF(failuresPerMinute float64, checkInterval time.Duration) float64 {
	return 1.0 - math.Exp(-failuresPerMinute*checkInterval.Minutes())
}

func newLampState(selfPowered bool, failuresPerMinute float64, checkInterval time.Duration) *LampState {
	return &LampState{
		IsSelfPowered:     selfPowered,
		WetFailureRateCDF: wetFailureCDF(failuresPerMinute, checkInterval),
		Phase:             LampInitial,
	}
}

// Reset puts the lamp back into its initial phase, as after a restore.
func (l *LampState) Reset() {
	l.Phase = LampInitial
	l.FlickerCounter = 0
	l.NextStateTransition = time.Time{}
	l.NextWetFailureCheck = time.Time{}
}

// OtherSinkState tracks a generic powered load.
type OtherSinkState struct {
	IsPowered bool
}

// PowerMonitorState tracks a power probe sink.
type PowerMonitorState struct {
	IsPowered bool
}

// SmokeEmitterState tracks a smoke emitter and its next emission.
type SmokeEmitterState struct {
	EmissionRate float64
	IsOperating  bool
	// NextEmission is in simulation seconds; valid only when Scheduled.
	NextEmission float64
	Scheduled    bool
}

func (*CableState) elementState()        {}
func (*SwitchState) elementState()       {}
func (*GeneratorState) elementState()    {}
func (*LampState) elementState()         {}
func (*OtherSinkState) elementState()    {}
func (*PowerMonitorState) elementState() {}
func (*SmokeEmitterState) elementState() {}
